// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package dberr classifies pgx errors for read paths.
//
// Write paths do not use it: a failed backend write is always reported as
// REMOTE_WRITE_ERROR by the owning service so the caller can retry.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bazaari/bazaari/internal/platform/apperr"
)

// uniqueViolation is the SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Wrap maps a database error onto an [apperr.AppError].
//
// pgx.ErrNoRows becomes NOT_FOUND for resource, unique violations become CONFLICT,
// anything else is wrapped with action as the log prefix.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	return fmt.Errorf("%s: %w", action, err)
}
