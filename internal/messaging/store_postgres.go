// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaari/bazaari/internal/platform/database/schema"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for messages.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert writes one message and fills in its creation time.
func (repository *PostgresStore) Insert(ctx context.Context, message *Message) error {
	table := schema.Message
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		table.Table,
		table.ID, table.SenderID, table.ReceiverID, table.AdID, table.Content,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		message.ID,
		message.SenderID,
		message.ReceiverID,
		message.AdID,
		message.Content,
	).Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_message_insert_failed: %w", err)
	}
	return nil
}

/*
Conversation returns the latest messages between a and b, oldest first.

Description: The newest limit rows are selected in descending order and flipped
back so long threads return their tail.
*/
func (repository *PostgresStore) Conversation(ctx context.Context, a, b string, limit int) ([]*Message, error) {
	table := schema.Message
	query := fmt.Sprintf(`
		SELECT * FROM (
			SELECT %s
			FROM %s
			WHERE (%s = $1 AND %s = $2) OR (%s = $2 AND %s = $1)
			ORDER BY %s DESC
			LIMIT $3
		) recent
		ORDER BY %s ASC`,
		strings.Join(table.Columns(), ", "),
		table.Table,
		table.SenderID, table.ReceiverID, table.SenderID, table.ReceiverID,
		table.CreatedAt,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, a, b, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_message_conversation_failed: %w", err)
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		var message Message
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.ReceiverID,
			&message.AdID,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_message_scan_failed: %w", err)
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_message_rows_failed: %w", err)
	}
	return messages, nil
}
