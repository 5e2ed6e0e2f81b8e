// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/platform/database/schema"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for wallet transactions.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Insert writes one transaction and fills in its creation time.

Parameters:
  - ctx: context.Context
  - transaction: *Transaction (ID already assigned)

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) Insert(ctx context.Context, transaction *Transaction) error {
	table := schema.Transaction
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING %s`,
		table.Table,
		table.ID, table.UserID, table.Amount, table.Type, table.Description, table.PaymentRef, table.Status,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		string(transaction.Type),
		transaction.Description,
		transaction.PaymentRef,
		string(transaction.Status),
	).Scan(&transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_transaction_insert_failed: %w", err)
	}
	return nil
}

/*
ListByUser returns one page of the user's transactions, newest first.

Returns:
  - []*Transaction: The page
  - int: Total number of transactions of the user
  - error: Execution failures
*/
func (repository *PostgresStore) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]*Transaction, int, error) {
	table := schema.Transaction

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table.Table, table.UserID)
	if err := repository.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_transaction_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		strings.Join(table.Columns(), ", "),
		table.Table,
		table.UserID,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_transaction_list_failed: %w", err)
	}
	defer rows.Close()

	transactions := make([]*Transaction, 0, page.Limit)
	for rows.Next() {
		var transaction Transaction
		var paymentRef *string
		if err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.Amount,
			&transaction.Type,
			&transaction.Description,
			&paymentRef,
			&transaction.Status,
			&transaction.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_transaction_scan_failed: %w", err)
		}
		if paymentRef != nil {
			transaction.PaymentRef = *paymentRef
		}
		transactions = append(transactions, &transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_transaction_rows_failed: %w", err)
	}
	return transactions, total, nil
}
