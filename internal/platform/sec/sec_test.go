// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/sec"
)

func signToken(t *testing.T, secret string, claims sec.AuthClaims, method jwt.SigningMethod) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() sec.AuthClaims {
	now := time.Now()
	return sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:        "seller@example.com",
		UserMetadata: sec.UserMetadata{FullName: "Rahim Uddin"},
	}
}

/*
TestTokenVerifier_VerifyToken covers signature, audience and expiry checks.
*/
func TestTokenVerifier_VerifyToken(t *testing.T) {
	verifier, err := sec.NewTokenVerifier("top-secret", "authenticated")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		token := signToken(t, "top-secret", validClaims(), jwt.SigningMethodHS256)
		claims, err := verifier.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, "Rahim Uddin", claims.UserMetadata.FullName)
		assert.Equal(t, token, claims.AccessToken)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, "other", validClaims(), jwt.SigningMethodHS256))
		assert.Error(t, err)
	})

	t.Run("wrong_method", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, "top-secret", validClaims(), jwt.SigningMethodHS512))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.VerifyToken(signToken(t, "top-secret", claims, jwt.SigningMethodHS256))
		assert.Error(t, err)
	})

	t.Run("wrong_audience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"anon"}
		_, err := verifier.VerifyToken(signToken(t, "top-secret", claims, jwt.SigningMethodHS256))
		assert.Error(t, err)
	})
}

/*
TestUserRole_AtLeast checks the Owner > Premium > Normal ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleOwner.AtLeast(sec.RolePremium))
	assert.True(t, sec.RolePremium.AtLeast(sec.RoleNormal))
	assert.False(t, sec.RoleNormal.AtLeast(sec.RolePremium))
	assert.False(t, sec.UserRole("root").IsValid())

	role, ok := sec.ParseRole("Premium")
	assert.True(t, ok)
	assert.Equal(t, sec.RolePremium, role)

	_, ok = sec.ParseRole("")
	assert.False(t, ok)
}
