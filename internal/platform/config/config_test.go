// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/bazaari")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BACKEND_URL", "https://backend.example.com")
	t.Setenv("BACKEND_ANON_KEY", "anon")
	t.Setenv("BACKEND_JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAIL", "owner@example.com")
}

/*
TestLoad_Defaults verifies defaults for the one-time code and wizard settings.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 8, cfg.OTPLength)
	assert.Equal(t, 60*time.Second, cfg.OTPResendCooldown)
	assert.Equal(t, 2*time.Hour, cfg.BoostProcessingDelay)
	assert.Equal(t, time.Minute, cfg.SessionFreshFor)
	assert.Equal(t, "owner@example.com", cfg.AdminEmail)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.AssistantEnabled())
}

/*
TestLoad_Invalid verifies missing and out-of-range values are rejected.
*/
func TestLoad_Invalid(t *testing.T) {
	t.Run("missing_admin_email", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ADMIN_EMAIL", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("otp_length_out_of_range", func(t *testing.T) {
		setRequired(t)
		t.Setenv("OTP_LENGTH", "2")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
