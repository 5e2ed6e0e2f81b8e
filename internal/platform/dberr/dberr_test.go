// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Profile", "find"))
	assert.True(t, apperr.IsNotFound(dberr.Wrap(pgx.ErrNoRows, "Profile", "find")))
	assert.True(t, apperr.HasCode(dberr.Wrap(&pgconn.PgError{Code: "23505"}, "Profile", "insert"), apperr.CodeConflict))

	cause := errors.New("timeout")
	wrapped := dberr.Wrap(cause, "Profile", "postgres_profile_find_failed")
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "postgres_profile_find_failed")
}
