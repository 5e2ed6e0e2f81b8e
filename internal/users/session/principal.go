// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package session resolves the signed-in marketplace principal.

A principal is materialized from two inputs: the provider session (subject id,
email, sign-up metadata) and the optional stored profile row. The provider
session is always built by [FromAccount] and combined with the profile by
[Build]; both the restore path and the event path go through the pair.

# Architecture

  - Principal: immutable value handed to readers.
  - State: one slot per subject, replaced whole under a lock.
  - Resolver: restore when the slot is missing or stale, re-resolve on every
    session event.
  - RedisEventBus: fan-out of sign-in, sign-out and user-updated events.
*/
package session

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/pkg/pointer"
)

// fallbackName is used when nothing else yields a display name.
const fallbackName = "User"

// # Inputs

// ProviderSession is the provider's view of the signed-in account.
type ProviderSession struct {
	SubjectID string    `json:"sub"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromAccount maps the provider's account onto a [ProviderSession].
func FromAccount(user backend.User) *ProviderSession {
	return &ProviderSession{
		SubjectID: user.ID,
		Email:     user.Email,
		Phone:     user.Phone,
		FullName:  user.UserMetadata.FullName,
		AvatarURL: user.UserMetadata.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// accountFromClaims is the account as far as the token tells. The creation
// time is unknown, so principals built from it are never stored.
func accountFromClaims(claims *sec.AuthClaims) backend.User {
	return backend.User{
		ID:           claims.UserID(),
		Email:        claims.Email,
		Phone:        claims.Phone,
		UserMetadata: claims.UserMetadata,
	}
}

// ProfileRecord is the stored profile row. Every column is nullable.
type ProfileRecord struct {
	ID               string
	Name             *string
	Phone            *string
	PhotoURL         *string
	Bio              *string
	Role             *string
	IsVerified       *bool
	TwoFactorEnabled *bool
	WalletBalance    *int64
	FollowersCount   *int64
	FollowingCount   *int64
	FriendsCount     *int64
	TotalAds         *int64
	CreatedAt        *time.Time
}

// # Principal

// Principal is the resolved, authenticated actor.
type Principal struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone,omitempty"`
	AvatarURL        string       `json:"avatar_url,omitempty"`
	Bio              string       `json:"bio,omitempty"`
	TwoFactorEnabled bool         `json:"two_factor_enabled"`
	IsVerified       bool         `json:"is_verified"`
	Role             sec.UserRole `json:"role"`
	WalletBalance    int64        `json:"wallet_balance"`
	FollowersCount   int64        `json:"followers"`
	FollowingCount   int64        `json:"following"`
	FriendsCount     int64        `json:"friends"`
	TotalAds         int64        `json:"total_ads"`
	JoinedAt         time.Time    `json:"joined_at"`
}

/*
Build materializes a principal from the provider session and the stored profile.

Rules:
  - Name: profile name, then metadata full name, then the email local part, then "User".
  - Role: the configured admin address is always Owner. Otherwise the stored
    Premium or Normal role, defaulting to Normal. A stored Owner on any other
    address is not honoured.
  - Avatar: profile photo, then metadata avatar.
  - Counters and balance default to zero and never go negative.

Returns nil when there is no session.
*/
func Build(session *ProviderSession, profile *ProfileRecord, adminEmail string) *Principal {
	if session == nil {
		return nil
	}
	if profile == nil {
		profile = &ProfileRecord{}
	}

	role := resolveRole(session.Email, profile.Role, adminEmail)

	joinedAt := session.CreatedAt
	if profile.CreatedAt != nil {
		joinedAt = *profile.CreatedAt
	}

	return &Principal{
		ID:               session.SubjectID,
		Name:             resolveName(profile.Name, session.FullName, session.Email),
		Email:            session.Email,
		Phone:            firstNonEmpty(pointer.Val(profile.Phone), session.Phone),
		AvatarURL:        firstNonEmpty(pointer.Val(profile.PhotoURL), session.AvatarURL),
		Bio:              clip(pointer.Val(profile.Bio), constants.BioMaxLength),
		TwoFactorEnabled: pointer.Val(profile.TwoFactorEnabled),
		IsVerified:       role == sec.RoleOwner || pointer.Val(profile.IsVerified),
		Role:             role,
		WalletBalance:    nonNegative(profile.WalletBalance),
		FollowersCount:   nonNegative(profile.FollowersCount),
		FollowingCount:   nonNegative(profile.FollowingCount),
		FriendsCount:     nonNegative(profile.FriendsCount),
		TotalAds:         nonNegative(profile.TotalAds),
		JoinedAt:         joinedAt,
	}
}

func resolveName(stored *string, fullName, email string) string {
	localPart, _, _ := strings.Cut(email, "@")
	return firstNonEmpty(pointer.Val(stored), fullName, localPart, fallbackName)
}

func resolveRole(email string, stored *string, adminEmail string) sec.UserRole {
	if adminEmail != "" && email == adminEmail {
		return sec.RoleOwner
	}

	role, ok := sec.ParseRole(pointer.Val(stored))
	if !ok || role == sec.RoleOwner {
		return sec.RoleNormal
	}
	return role
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func nonNegative(value *int64) int64 {
	return max(pointer.Val(value), 0)
}

func clip(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
