// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package account handles profile edits and public profiles.

The [Coordinator] is the only writer of the principal slot besides the session
resolver. A save writes the backend first; the slot is replaced with the merged
value only after the write is accepted.

# Architecture

  - Entities: ProfileEdit (partial update), PublicProfile (DTO).
  - Domain: depends on the session package for Principal and State.
*/
package account

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/session"
)

// # Field Identifiers

const (
	FieldName      = "name"
	FieldBio       = "bio"
	FieldPhone     = "phone_number"
	FieldAvatarURL = "photo_url"
)

const (
	nameMaxLength   = 80
	phoneMaxLength  = 20
	avatarMaxLength = 2048
)

// # Domain Entities

// ProfileEdit is a partial profile update. Nil fields are left unchanged.
type ProfileEdit struct {
	Name             *string `json:"name,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	Phone            *string `json:"phone_number,omitempty"`
	AvatarURL        *string `json:"photo_url,omitempty"`
	TwoFactorEnabled *bool   `json:"is_two_factor_enabled,omitempty"`
}

// IsEmpty reports whether the edit changes nothing.
func (edit ProfileEdit) IsEmpty() bool {
	return edit.Name == nil && edit.Bio == nil && edit.Phone == nil &&
		edit.AvatarURL == nil && edit.TwoFactorEnabled == nil
}

// Normalize trims the text fields.
func (edit ProfileEdit) Normalize() ProfileEdit {
	edit.Name = trimmed(edit.Name)
	edit.Bio = trimmed(edit.Bio)
	edit.Phone = trimmed(edit.Phone)
	edit.AvatarURL = trimmed(edit.AvatarURL)
	return edit
}

// Validate checks the provided fields only.
func (edit ProfileEdit) Validate() error {
	validator := &validate.Validator{}

	if edit.Name != nil {
		validator.Required(FieldName, *edit.Name).MaxLen(FieldName, *edit.Name, nameMaxLength)
	}
	if edit.Bio != nil {
		validator.Custom(FieldBio, utf8.RuneCountInString(*edit.Bio) > constants.BioMaxLength,
			"Must be at most 160 characters")
	}
	if edit.Phone != nil {
		validator.MaxLen(FieldPhone, *edit.Phone, phoneMaxLength)
	}
	if edit.AvatarURL != nil {
		validator.MaxLen(FieldAvatarURL, *edit.AvatarURL, avatarMaxLength)
	}

	return validator.Err()
}

// Apply returns principal with the edit merged in.
func (edit ProfileEdit) Apply(principal session.Principal) session.Principal {
	if edit.Name != nil {
		principal.Name = *edit.Name
	}
	if edit.Bio != nil {
		principal.Bio = *edit.Bio
	}
	if edit.Phone != nil {
		principal.Phone = *edit.Phone
	}
	if edit.AvatarURL != nil {
		principal.AvatarURL = *edit.AvatarURL
	}
	if edit.TwoFactorEnabled != nil {
		principal.TwoFactorEnabled = *edit.TwoFactorEnabled
	}
	return principal
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(*value)
	return &text
}

// PublicProfile is what other users see.
type PublicProfile struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	AvatarURL      string       `json:"avatar_url,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	IsVerified     bool         `json:"is_verified"`
	Role           sec.UserRole `json:"role"`
	FollowersCount int64        `json:"followers"`
	FollowingCount int64        `json:"following"`
	TotalAds       int64        `json:"total_ads"`
	JoinedAt       time.Time    `json:"joined_at"`
}

func publicProfile(principal *session.Principal) PublicProfile {
	return PublicProfile{
		ID:             principal.ID,
		Name:           principal.Name,
		AvatarURL:      principal.AvatarURL,
		Bio:            principal.Bio,
		IsVerified:     principal.IsVerified,
		Role:           principal.Role,
		FollowersCount: principal.FollowersCount,
		FollowingCount: principal.FollowingCount,
		TotalAds:       principal.TotalAds,
		JoinedAt:       principal.JoinedAt,
	}
}

// # Repository Contracts

// ProfileWriter persists profile edits.
type ProfileWriter interface {
	/*
		UpdateProfile writes the non-nil fields of edit.

		Parameters:
		  - ctx: context.Context
		  - id: string (subject id)
		  - email: string (stored when the row does not exist yet)
		  - edit: ProfileEdit

		Returns:
		  - error: Any failure; the caller reports it as a remote write error
	*/
	UpdateProfile(ctx context.Context, id, email string, edit ProfileEdit) error
}

// PublicReader loads another user's stored profile.
type PublicReader interface {
	// FindPublic returns the profile row and the stored email, or NOT_FOUND.
	FindPublic(ctx context.Context, id string) (*session.ProfileRecord, string, error)
}
