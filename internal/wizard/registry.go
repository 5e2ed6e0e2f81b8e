// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// Abandoner is implemented by wizard values that hold live resources.
// The registry calls Abandon when an instance is replaced or evicted.
type Abandoner interface {
	Abandon()
}

type entry[T any] struct {
	mu      sync.Mutex
	owner   string
	value   T
	touched time.Time
}

// Registry keeps the in-flight instances of one wizard kind in memory.
//
// Each owner has at most one instance; starting a new one replaces the old.
// Steps of one instance run strictly one after another.
type Registry[T any] struct {
	mu      sync.Mutex
	flow    string
	entries map[string]*entry[T]
	byOwner map[string]string
	clock   Clock
}

// NewRegistry creates an empty registry for flow.
func NewRegistry[T any](flow string, clock Clock) *Registry[T] {
	return &Registry[T]{
		flow:    flow,
		entries: make(map[string]*entry[T]),
		byOwner: make(map[string]string),
		clock:   clock,
	}
}

// Start stores value as the owner's current instance and returns its id.
func (registry *Registry[T]) Start(owner string, value T) string {
	id := uuid.New()

	registry.mu.Lock()
	previous, hadPrevious := registry.entries[registry.byOwner[owner]]
	if hadPrevious {
		delete(registry.entries, registry.byOwner[owner])
	}
	registry.entries[id] = &entry[T]{owner: owner, value: value, touched: registry.clock.Now()}
	registry.byOwner[owner] = id
	registry.mu.Unlock()

	if hadPrevious {
		abandon(previous)
	}

	return id
}

// Open stores value as an instance owned by its own id and returns that id.
// Flows that run before sign in use it; the id is the only credential.
func (registry *Registry[T]) Open(value T) string {
	id := uuid.New()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.entries[id] = &entry[T]{owner: id, value: value, touched: registry.clock.Now()}
	registry.byOwner[id] = id
	return id
}

// With runs step against the instance while holding its lock.
//
// Unknown ids, and ids owned by someone else, report NOT_FOUND so instance ids
// cannot be probed across principals.
func (registry *Registry[T]) With(id, owner string, step func(value T) error) error {
	registry.mu.Lock()
	current, ok := registry.entries[id]
	registry.mu.Unlock()

	if !ok || current.owner != owner {
		return apperr.NotFound("Wizard session")
	}

	current.mu.Lock()
	defer current.mu.Unlock()

	current.touched = registry.clock.Now()
	return step(current.value)
}

// Remove discards the instance and releases what it holds.
func (registry *Registry[T]) Remove(id, owner string) {
	registry.mu.Lock()
	current, ok := registry.entries[id]
	if !ok || current.owner != owner {
		registry.mu.Unlock()
		return
	}
	delete(registry.entries, id)
	if registry.byOwner[owner] == id {
		delete(registry.byOwner, owner)
	}
	registry.mu.Unlock()

	abandon(current)
}

// Len returns the number of live instances.
func (registry *Registry[T]) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.entries)
}

// Sweep evicts instances idle for longer than ttl and returns how many were evicted.
// Instances currently running a step are skipped.
func (registry *Registry[T]) Sweep(ttl time.Duration) int {
	now := registry.clock.Now()
	evicted := make([]*entry[T], 0)

	registry.mu.Lock()
	for id, current := range registry.entries {
		if !current.mu.TryLock() {
			continue
		}
		idle := now.Sub(current.touched) > ttl
		current.mu.Unlock()

		if idle {
			delete(registry.entries, id)
			if registry.byOwner[current.owner] == id {
				delete(registry.byOwner, current.owner)
			}
			evicted = append(evicted, current)
		}
	}
	registry.mu.Unlock()

	for _, current := range evicted {
		abandon(current)
	}

	return len(evicted)
}

// RunSweeper evicts idle instances every interval until ctx is cancelled.
func (registry *Registry[T]) RunSweeper(ctx context.Context, interval, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := registry.Sweep(ttl); evicted > 0 {
				logger.Debug("wizard_sessions_evicted",
					slog.String("flow", registry.flow),
					slog.Int("count", evicted),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func abandon[T any](current *entry[T]) {
	current.mu.Lock()
	defer current.mu.Unlock()

	if abandoner, ok := any(current.value).(Abandoner); ok {
		abandoner.Abandon()
	}
}
