// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package account

import (
	"context"
	"log/slog"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/dberr"
	"github.com/bazaari/bazaari/internal/users/session"
)

// # Profile Save

// Coordinator applies profile edits to the backend and then to the principal slot.
//
// Concurrent saves for one subject are not serialized; the later successful
// write replaces the slot. Every successful write is announced so other
// replicas drop their copy of the principal.
type Coordinator struct {
	state     *session.State
	writer    ProfileWriter
	publisher session.EventPublisher
	observer  session.ResolutionObserver
	logger    *slog.Logger
}

// NewCoordinator constructs a new [Coordinator]. publisher and observer may be nil.
func NewCoordinator(state *session.State, writer ProfileWriter, publisher session.EventPublisher, observer session.ResolutionObserver, logger *slog.Logger) *Coordinator {
	return &Coordinator{state: state, writer: writer, publisher: publisher, observer: observer, logger: logger}
}

/*
Save validates edit, writes it and replaces the principal slot with the merge.

Parameters:
  - ctx: context.Context
  - principalID: string (must have an occupied slot)
  - edit: ProfileEdit

Returns:
  - session.Principal: The new slot value
  - error: VALIDATION_ERROR, UNAUTHORIZED without a slot, REMOTE_WRITE_ERROR when
    the backend rejects the write. On any error the slot is untouched.

A slot cleared by sign out while the write was in flight stays cleared.
*/
func (coordinator *Coordinator) Save(ctx context.Context, principalID string, edit ProfileEdit) (session.Principal, error) {
	edit = edit.Normalize()
	if err := edit.Validate(); err != nil {
		return session.Principal{}, err
	}

	previous, ok := coordinator.state.Current(principalID)
	if !ok {
		return session.Principal{}, apperr.Unauthorized("Authentication required")
	}
	if edit.IsEmpty() {
		return previous, nil
	}

	if err := coordinator.writer.UpdateProfile(ctx, principalID, previous.Email, edit); err != nil {
		coordinator.logger.ErrorContext(ctx, "profile_save_failed",
			slog.String("user_id", principalID),
			slog.Any("error", err),
		)
		return previous, apperr.RemoteWrite("Failed to save settings.", err)
	}

	coordinator.announce(ctx, principalID)

	// Merge onto the slot as it is now, which may be newer than previous.
	current, ok := coordinator.state.Current(principalID)
	if !ok {
		coordinator.logger.InfoContext(ctx, "profile_saved_after_sign_out", slog.String("user_id", principalID))
		return edit.Apply(previous), nil
	}
	next := edit.Apply(current)
	coordinator.state.Replace(next)

	if coordinator.observer != nil {
		coordinator.observer.ObserveResolution(session.SourceSave, string(next.Role))
	}
	coordinator.logger.InfoContext(ctx, "profile_saved", slog.String("user_id", principalID))
	return next, nil
}

func (coordinator *Coordinator) announce(ctx context.Context, principalID string) {
	if coordinator.publisher == nil {
		return
	}
	if err := coordinator.publisher.Publish(ctx, session.ProfileChanged(principalID)); err != nil {
		coordinator.logger.WarnContext(ctx, "profile_change_publish_failed",
			slog.String("user_id", principalID),
			slog.Any("error", err),
		)
	}
}

// # Public Profiles

// Directory serves public profiles.
type Directory struct {
	reader     PublicReader
	adminEmail string
}

// NewDirectory constructs a new [Directory]. adminEmail decides the Owner badge.
func NewDirectory(reader PublicReader, adminEmail string) *Directory {
	return &Directory{reader: reader, adminEmail: adminEmail}
}

// Profile returns the public view of user id.
func (directory *Directory) Profile(ctx context.Context, id string) (PublicProfile, error) {
	record, email, err := directory.reader.FindPublic(ctx, id)
	if err != nil {
		return PublicProfile{}, dberr.Wrap(err, "User", "account_directory_profile_failed")
	}

	providerSession := &session.ProviderSession{SubjectID: id, Email: email}
	if record.CreatedAt != nil {
		providerSession.CreatedAt = *record.CreatedAt
	}
	return publicProfile(session.Build(providerSession, record, directory.adminEmail)), nil
}
