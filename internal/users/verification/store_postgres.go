// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/database/schema"
	"github.com/bazaari/bazaari/internal/platform/dberr"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for verification requests.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Insert writes one verification request.

Parameters:
  - ctx: context.Context
  - request: *Request (ID already assigned)

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) Insert(ctx context.Context, request *Request) error {
	table := schema.VerificationRequest
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		table.Table,
		table.ID, table.UserID, table.FullName, table.NIDNumber, table.FrontImage,
		table.BackImage, table.PaymentMethod, table.TransactionRef, table.Amount, table.Status,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		request.ID,
		request.UserID,
		request.FullName,
		request.NIDNumber,
		request.FrontImage,
		request.BackImage,
		string(request.Payment.Method),
		request.Payment.TransactionID,
		request.Amount,
		request.Status,
	).Scan(&request.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_verification_insert_failed: %w", err)
	}
	return nil
}

// Latest returns the newest request of userID without the image payloads.
func (repository *PostgresStore) Latest(ctx context.Context, userID string) (*Request, error) {
	table := schema.VerificationRequest
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT 1`,
		table.ID, table.UserID, table.FullName, table.NIDNumber, table.PaymentMethod,
		table.TransactionRef, table.Amount, table.Status, table.CreatedAt,
		table.Table,
		table.UserID,
		table.CreatedAt,
	)

	var request Request
	var method string
	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&request.ID,
		&request.UserID,
		&request.FullName,
		&request.NIDNumber,
		&method,
		&request.Payment.TransactionID,
		&request.Amount,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Verification request", "postgres_verification_latest_failed")
	}

	request.Payment.Method = payment.Method(method)
	return &request, nil
}
