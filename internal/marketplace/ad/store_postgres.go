// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/platform/database/schema"
	"github.com/bazaari/bazaari/pkg/pagination"
	"github.com/bazaari/bazaari/pkg/pointer"
	"github.com/bazaari/bazaari/pkg/slice"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for listings.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Listings

/*
Insert writes a listing and fills in its creation time.

Parameters:
  - ctx: context.Context
  - listing: *Listing (validated, ID and Slug assigned)

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) Insert(ctx context.Context, listing *Listing) error {
	table := schema.Ad
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s`,
		table.Table,
		table.ID, table.Slug, table.Title, table.Category, table.Description, table.Price,
		table.Location, table.District, table.Condition, table.RentalTarget, table.Images,
		table.SellerID, table.Status,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		listing.ID,
		listing.Slug,
		listing.Title,
		string(listing.Category),
		listing.Description,
		listing.Price,
		listing.Location,
		listing.District,
		pointer.Text(listing.Condition),
		pointer.Text(listing.RentalTarget),
		listing.Images,
		listing.SellerID,
		string(listing.Status),
	).Scan(&listing.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_ad_insert_failed: %w", err)
	}
	return nil
}

// FindByID returns one listing or pgx.ErrNoRows.
func (repository *PostgresStore) FindByID(ctx context.Context, id string) (*Listing, error) {
	table := schema.Ad
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	listing, err := scanListing(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return listing, nil
}

/*
List returns a filtered page of listings, newest first.

Description: The total count comes from a COUNT(*) OVER() window so one round
trip serves both the page and the pagination meta.

Returns:
  - []*Listing: The page
  - int: Total count matching filter
  - error: Execution failures
*/
func (repository *PostgresStore) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Listing, int, error) {
	table := schema.Ad

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s <> 'rejected'`,
		strings.Join(table.Columns(), ", "), table.Table, table.Status,
	))

	if len(filter.Categories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = ANY($%d)", table.Category, argID))
		args = append(args, slice.Map(filter.Categories, func(category Category) string { return string(category) }))
		argID++
	}

	if filter.Location != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", table.Location, argID))
		args = append(args, filter.Location)
		argID++
	}

	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s >= $%d", table.Price, argID))
		args = append(args, *filter.MinPrice)
		argID++
	}

	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s <= $%d", table.Price, argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", table.Title, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d", table.CreatedAt, argID, argID+1))
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_ad_list_failed: %w", err)
	}
	defer rows.Close()

	listings := make([]*Listing, 0, page.Limit)
	total := 0
	for rows.Next() {
		var rowTotal int
		listing, err := scanListing(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_ad_scan_failed: %w", err)
		}
		total = rowTotal
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_ad_rows_failed: %w", err)
	}
	return listings, total, nil
}

// ListBySeller returns every listing of sellerID, newest first.
func (repository *PostgresStore) ListBySeller(ctx context.Context, sellerID string) ([]*Listing, error) {
	table := schema.Ad
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		strings.Join(table.Columns(), ", "), table.Table, table.SellerID, table.CreatedAt)

	rows, err := repository.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("postgres_ad_list_by_seller_failed: %w", err)
	}
	defer rows.Close()

	listings := make([]*Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_ad_scan_failed: %w", err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// # Boost Requests

// InsertBoostRequest writes one boost request and fills in its creation time.
func (repository *PostgresStore) InsertBoostRequest(ctx context.Context, request *BoostRequest) error {
	table := schema.BoostRequest
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`,
		table.Table,
		table.ID, table.AdID, table.UserID, table.Days, table.Price,
		table.PaymentMethod, table.TransactionRef, table.Status,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		request.ID,
		request.AdID,
		request.UserID,
		request.Days,
		request.Price,
		string(request.Payment.Method),
		request.Payment.TransactionID,
		request.Status,
	).Scan(&request.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_boost_request_insert_failed: %w", err)
	}
	return nil
}

// # Scanning

// scanListing reads the columns of [schema.AdTable.Columns] followed by extra targets.
func scanListing(row pgx.Row, extra ...any) (*Listing, error) {
	var listing Listing
	var category, status string
	var condition, rentalTarget *string

	targets := []any{
		&listing.ID,
		&listing.Slug,
		&listing.Title,
		&category,
		&listing.Description,
		&listing.Price,
		&listing.Location,
		&listing.District,
		&condition,
		&rentalTarget,
		&listing.Images,
		&listing.SellerID,
		&listing.IsBoosted,
		&listing.BoostExpiry,
		&listing.Views,
		&listing.Clicks,
		&status,
		&listing.CreatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	listing.Category = Category(category)
	listing.Status = Status(status)
	if condition != nil {
		value := Condition(*condition)
		listing.Condition = &value
	}
	if rentalTarget != nil {
		value := RentalTarget(*rentalTarget)
		listing.RentalTarget = &value
	}
	return &listing, nil
}
