// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/platform/database/schema"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// Literal values matched by the dashboard queries.
const (
	adStatusPending     = "pending"
	transactionPending  = "Pending"
	transactionComplete = "Completed"
	transactionDeposit  = "Deposit"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for the dashboard.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Overview computes every counter in one round trip.
func (repository *PostgresStore) Overview(ctx context.Context) (*Overview, error) {
	ads, profiles, transactions := schema.Ad, schema.Profile, schema.Transaction

	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s WHERE %s = $1),
			(SELECT COUNT(*) FROM %s),
			(SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = $2 AND %s = $3),
			(SELECT COUNT(*) FROM %s WHERE %s = $4)`,
		ads.Table, ads.Status,
		profiles.Table,
		transactions.Amount, transactions.Table, transactions.Type, transactions.Status,
		transactions.Table, transactions.Status,
	)

	var overview Overview
	err := repository.pool.QueryRow(ctx, query,
		adStatusPending,
		transactionDeposit,
		transactionComplete,
		transactionPending,
	).Scan(
		&overview.PendingAds,
		&overview.ActiveUsers,
		&overview.TotalRevenue,
		&overview.PendingTransactions,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_overview_failed: %w", err)
	}
	return &overview, nil
}

// PendingAds lists listings awaiting review.
func (repository *PostgresStore) PendingAds(ctx context.Context, page pagination.Params) ([]*QueueItem, int, error) {
	table := schema.Ad
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		table.ID, table.SellerID, table.Title, table.Price, table.CreatedAt,
		table.Table,
		table.Status,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, adStatusPending, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_pending_ads_failed: %w", err)
	}
	return collectQueue(rows, page.Limit)
}

// PendingPayments lists payment claims awaiting verification.
func (repository *PostgresStore) PendingPayments(ctx context.Context, page pagination.Params) ([]*QueueItem, int, error) {
	table := schema.Transaction
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		table.ID, table.UserID, table.Description, table.Amount, table.CreatedAt,
		table.Table,
		table.Status,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, transactionPending, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_pending_payments_failed: %w", err)
	}
	return collectQueue(rows, page.Limit)
}

// collectQueue scans queue rows whose last column is the window total.
func collectQueue(rows pgx.Rows, capacity int) ([]*QueueItem, int, error) {
	defer rows.Close()

	var total int
	items := make([]*QueueItem, 0, capacity)
	for rows.Next() {
		var item QueueItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Amount, &item.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres_admin_queue_scan_failed: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_queue_rows_failed: %w", err)
	}
	return items, total, nil
}
