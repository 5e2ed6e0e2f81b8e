// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package account (Postgres) implements profile storage.

# Schema Table Mapping
  - public.profiles: one nullable row per subject, keyed by the provider's user id.
*/
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/platform/database/schema"
	"github.com/bazaari/bazaari/internal/platform/dberr"
	"github.com/bazaari/bazaari/internal/users/session"
)

// # Repository Implementations

// PostgresProfileRepository implements [session.ProfileReader], [ProfileWriter]
// and [PublicReader] using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new Postgres implementation for profiles.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

/*
FindProfile returns the stored profile row.

Returns:
  - *session.ProfileRecord: Nullable columns as pointers
  - error: NOT_FOUND when no row exists, or storage failures
*/
func (repository *PostgresProfileRepository) FindProfile(ctx context.Context, subjectID string) (*session.ProfileRecord, error) {
	record, _, err := repository.find(ctx, subjectID)
	if err != nil {
		return nil, dberr.Wrap(err, "Profile", "postgres_profile_find_failed")
	}
	return record, nil
}

// FindPublic returns the stored profile row with the stored email.
func (repository *PostgresProfileRepository) FindPublic(ctx context.Context, id string) (*session.ProfileRecord, string, error) {
	return repository.find(ctx, id)
}

func (repository *PostgresProfileRepository) find(ctx context.Context, id string) (*session.ProfileRecord, string, error) {
	table := schema.Profile
	query := fmt.Sprintf(`SELECT %s, COALESCE(%s, '') FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Email, table.Table, table.ID)

	var record session.ProfileRecord
	var email string
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Name,
		&record.Phone,
		&record.PhotoURL,
		&record.Bio,
		&record.Role,
		&record.IsVerified,
		&record.TwoFactorEnabled,
		&record.WalletBalance,
		&record.FollowersCount,
		&record.FollowingCount,
		&record.FriendsCount,
		&record.TotalAds,
		&record.CreatedAt,
		&email,
	)
	if err != nil {
		return nil, "", err
	}
	return &record, email, nil
}

/*
UpdateProfile upserts the non-nil fields of edit.

Description: A subject who signed up but never saved a profile has no row yet,
so the write inserts one carrying the email and only the edited columns.

Returns:
  - error: Execution failures
*/
func (repository *PostgresProfileRepository) UpdateProfile(ctx context.Context, id, email string, edit ProfileEdit) error {
	table := schema.Profile

	columns := []string{table.ID, table.Email}
	args := []any{id, email}

	add := func(column string, value any) {
		columns = append(columns, column)
		args = append(args, value)
	}
	if edit.Name != nil {
		add(table.Name, *edit.Name)
	}
	if edit.Bio != nil {
		add(table.Bio, *edit.Bio)
	}
	if edit.Phone != nil {
		add(table.Phone, *edit.Phone)
	}
	if edit.AvatarURL != nil {
		add(table.PhotoURL, *edit.AvatarURL)
	}
	if edit.TwoFactorEnabled != nil {
		add(table.TwoFactorEnabled, *edit.TwoFactorEnabled)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	updates := []string{fmt.Sprintf("%s = NOW()", table.UpdatedAt)}
	for _, column := range columns[2:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (%s) DO UPDATE SET %s`,
		table.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		table.ID,
		strings.Join(updates, ", "),
	)

	if _, err := repository.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres_profile_update_failed: %w", err)
	}
	return nil
}
