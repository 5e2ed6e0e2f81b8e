// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package admin serves the Owner moderation dashboard: headline counters and
the two pending queues (listings awaiting review and payment claims awaiting
verification).

Every read re-checks the viewer's capability; the route guard alone is not
trusted.
*/
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/users/access"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// # Domain Entities

// Overview holds the dashboard counters.
type Overview struct {
	PendingAds          int64 `json:"pending_ads"`
	ActiveUsers         int64 `json:"active_users"`
	TotalRevenue        int64 `json:"total_revenue"`
	PendingTransactions int64 `json:"pending_transactions"`
}

// Queue names a moderation queue.
type Queue string

const (
	QueueAds      Queue = "ads"
	QueuePayments Queue = "payments"
)

// IsValid reports whether q names a known queue.
func (q Queue) IsValid() bool {
	return q == QueueAds || q == QueuePayments
}

// QueueItem is one row awaiting moderation.
type QueueItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// # Contracts

// Store reads the dashboard aggregates.
type Store interface {
	Overview(ctx context.Context) (*Overview, error)

	// PendingAds returns listings in review, oldest first.
	PendingAds(ctx context.Context, page pagination.Params) ([]*QueueItem, int, error)

	// PendingPayments returns Pending transactions, oldest first.
	PendingPayments(ctx context.Context, page pagination.Params) ([]*QueueItem, int, error)
}

// # Service Layer

// Service implements the dashboard reads.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// authorize rejects viewers that may not see admin panels.
func authorize(ctx context.Context) error {
	principal := session.FromContext(ctx)
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !access.For(principal).CanViewAdminPanels() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

/*
Overview returns the dashboard counters.

Returns:
  - *Overview: Counters at read time
  - error: UNAUTHORIZED, FORBIDDEN or read failures
*/
func (service *Service) Overview(ctx context.Context) (*Overview, error) {
	if err := authorize(ctx); err != nil {
		return nil, err
	}

	overview, err := service.store.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin_service_overview_failed: %w", err)
	}
	return overview, nil
}

// Queue returns one page of the named moderation queue.
func (service *Service) Queue(ctx context.Context, queue Queue, page pagination.Params) ([]*QueueItem, int, error) {
	if err := authorize(ctx); err != nil {
		return nil, 0, err
	}

	if !queue.IsValid() {
		return nil, 0, apperr.ValidationError("Unknown queue", apperr.FieldError{Field: "queue", Message: "Must be ads or payments"})
	}

	read := service.store.PendingAds
	if queue == QueuePayments {
		read = service.store.PendingPayments
	}

	items, total, err := read(ctx, page)
	if err != nil {
		service.logger.ErrorContext(ctx, "admin_queue_failed", slog.String("queue", string(queue)), slog.Any("error", err))
		return nil, 0, fmt.Errorf("admin_service_queue_failed: %w", err)
	}
	return items, total, nil
}
