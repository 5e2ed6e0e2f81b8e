// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/platform/sec"
)

// Resolution sources, used as the metrics label.
const (
	SourceRestore = "restore"
	SourceEvent   = "event"
	SourceSave    = "save"
)

// ProfileReader fetches the stored profile row for a subject.
type ProfileReader interface {
	/*
		FindProfile returns the stored profile.

		Returns:
		  - *ProfileRecord: nil with a NOT_FOUND error when no row exists
		  - error: storage failures
	*/
	FindProfile(ctx context.Context, subjectID string) (*ProfileRecord, error)
}

// AccountReader looks up the provider account behind an access token.
type AccountReader interface {
	CurrentUser(ctx context.Context, accessToken string) (*backend.User, error)
}

// ResolutionObserver is notified of every materialized principal.
type ResolutionObserver interface {
	ObserveResolution(source, role string)
}

// ResolverConfig tunes a [Resolver].
type ResolverConfig struct {
	// AdminEmail always resolves as Owner.
	AdminEmail string

	// FreshFor bounds how long a slot answers requests before it is resolved again.
	FreshFor time.Duration
}

// Resolver materializes principals and keeps [State] current.
type Resolver struct {
	state    *State
	profiles ProfileReader
	accounts AccountReader
	config   ResolverConfig
	observer ResolutionObserver
	logger   *slog.Logger
}

// NewResolver wires a resolver. observer may be nil.
func NewResolver(state *State, profiles ProfileReader, accounts AccountReader, config ResolverConfig, observer ResolutionObserver, logger *slog.Logger) *Resolver {
	return &Resolver{
		state:    state,
		profiles: profiles,
		accounts: accounts,
		config:   config,
		observer: observer,
		logger:   logger,
	}
}

/*
Resolve fetches the profile, builds the principal and replaces the slot.

A profile read failure still yields a principal built from session data with
defaults, but that degraded value is not stored so the next request retries.

Returns nil when session is nil.
*/
func (resolver *Resolver) Resolve(ctx context.Context, source string, session *ProviderSession) *Principal {
	return resolver.resolve(ctx, source, session, true)
}

func (resolver *Resolver) resolve(ctx context.Context, source string, session *ProviderSession, storable bool) *Principal {
	if session == nil {
		return nil
	}

	profile, err := resolver.profiles.FindProfile(ctx, session.SubjectID)
	degraded := err != nil && !apperr.IsNotFound(err)
	if degraded {
		resolver.logger.WarnContext(ctx, "session_profile_fetch_failed",
			slog.String("user_id", session.SubjectID),
			slog.Any("error", err),
		)
	}
	if err != nil {
		profile = nil
	}

	principal := Build(session, profile, resolver.config.AdminEmail)
	if storable && !degraded {
		resolver.state.Replace(*principal)
	}

	if resolver.observer != nil {
		resolver.observer.ObserveResolution(source, string(principal.Role))
	}
	resolver.logger.DebugContext(ctx, "session_resolved",
		slog.String("source", source),
		slog.String("user_id", principal.ID),
		slog.String("role", string(principal.Role)),
	)

	return principal
}

/*
Restore returns the principal for a request carrying claims.

A fresh slot is served as is. Otherwise the account is read back from the
provider and resolved like a sign-in event, so both paths build the principal
from the same inputs. When the provider cannot be reached the principal is
built from the claims alone and served without being stored.

Returns:
  - *Principal: the resolved principal
  - error: UNAUTHORIZED when claims are missing or the provider rejects the token
*/
func (resolver *Resolver) Restore(ctx context.Context, claims *sec.AuthClaims) (*Principal, error) {
	if claims == nil || claims.UserID() == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if principal, ok := resolver.state.Fresh(claims.UserID(), resolver.config.FreshFor); ok {
		return &principal, nil
	}

	session, storable, err := resolver.lookupAccount(ctx, claims)
	if err != nil {
		return nil, err
	}
	return resolver.resolve(ctx, SourceRestore, session, storable), nil
}

func (resolver *Resolver) lookupAccount(ctx context.Context, claims *sec.AuthClaims) (*ProviderSession, bool, error) {
	if resolver.accounts == nil {
		return FromAccount(accountFromClaims(claims)), false, nil
	}

	user, err := resolver.accounts.CurrentUser(ctx, claims.AccessToken)
	switch {
	case err == nil && user.ID == claims.UserID():
		return FromAccount(*user), true, nil
	case err == nil, backend.IsClientError(err):
		return nil, false, apperr.Unauthorized("Invalid or expired token")
	}

	resolver.logger.WarnContext(ctx, "session_account_fetch_failed",
		slog.String("user_id", claims.UserID()),
		slog.Any("error", err),
	)
	return FromAccount(accountFromClaims(claims)), false, nil
}

// Apply handles one session event. Sign out clears the slot, and so does an
// event without a session (a stored profile changed), which makes the next
// request resolve again. Anything else re-resolves now.
func (resolver *Resolver) Apply(ctx context.Context, event Event) {
	if event.Session == nil || event.Kind == EventSignedOut {
		resolver.state.Clear(event.SubjectID)
		resolver.logger.DebugContext(ctx, "session_cleared",
			slog.String("user_id", event.SubjectID),
			slog.String("kind", string(event.Kind)),
		)
		return
	}
	resolver.Resolve(ctx, SourceEvent, event.Session)
}

// Watch subscribes to source and applies events until unsubscribe is called
// or ctx is cancelled. Unsubscribe waits for the event loop to stop.
func (resolver *Resolver) Watch(ctx context.Context, source EventSource) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)

	events, unsubscribeSource, err := source.Subscribe(watchCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("session_watch_failed: %w", err)
	}

	var group sync.WaitGroup
	group.Add(1)
	go func() {
		defer group.Done()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				resolver.Apply(watchCtx, event)
			case <-watchCtx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			unsubscribeSource()
			group.Wait()
		})
	}, nil
}

// Bind implements the principal binder used by the HTTP middleware.
func (resolver *Resolver) Bind(ctx context.Context, claims *sec.AuthClaims) (context.Context, error) {
	principal, err := resolver.Restore(ctx, claims)
	if err != nil {
		return ctx, err
	}
	return WithPrincipal(ctx, *principal), nil
}
