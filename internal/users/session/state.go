// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package session

import (
	"context"
	"sync"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/ctxkey"
	"github.com/bazaari/bazaari/internal/platform/sec"
)

// State is the container of resolved principals, one slot per subject.
//
// Slots are replaced whole; readers get a copy and never see a partial update.
// Writers are the [Resolver] and the profile save coordinator.
type State struct {
	mu    sync.RWMutex
	now   func() time.Time
	slots map[string]slot
}

type slot struct {
	principal Principal
	storedAt  time.Time
}

// NewState creates an empty container on the wall clock.
func NewState() *State {
	return NewStateAt(time.Now)
}

// NewStateAt creates an empty container that stamps slots with now.
func NewStateAt(now func() time.Time) *State {
	return &State{now: now, slots: make(map[string]slot)}
}

// Current returns the principal in the subject's slot.
func (state *State) Current(subjectID string) (Principal, bool) {
	state.mu.RLock()
	defer state.mu.RUnlock()

	entry, ok := state.slots[subjectID]
	return entry.principal, ok
}

// Fresh returns the principal only if it was stored less than maxAge ago.
// A non-positive maxAge treats every slot as stale.
func (state *State) Fresh(subjectID string, maxAge time.Duration) (Principal, bool) {
	state.mu.RLock()
	defer state.mu.RUnlock()

	entry, ok := state.slots[subjectID]
	if !ok || maxAge <= 0 || state.now().Sub(entry.storedAt) >= maxAge {
		return Principal{}, false
	}
	return entry.principal, true
}

// Replace stores principal in its subject's slot. Last write wins.
func (state *State) Replace(principal Principal) {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.slots[principal.ID] = slot{principal: principal, storedAt: state.now()}
}

// Clear empties the subject's slot (signed out).
func (state *State) Clear(subjectID string) {
	state.mu.Lock()
	defer state.mu.Unlock()

	delete(state.slots, subjectID)
}

// Len returns the number of occupied slots.
func (state *State) Len() int {
	state.mu.RLock()
	defer state.mu.RUnlock()

	return len(state.slots)
}

// # Context

// WithPrincipal returns a context carrying a copy of principal.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// FromContext returns the principal bound to ctx, or nil when anonymous.
func FromContext(ctx context.Context) *Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(Principal)
	if !ok {
		return nil
	}
	return &principal
}

// RoleOf reports the role of the principal bound to ctx.
func RoleOf(ctx context.Context) (sec.UserRole, bool) {
	principal := FromContext(ctx)
	if principal == nil {
		return "", false
	}
	return principal.Role, true
}

// Required returns the bound principal, or UNAUTHORIZED when the request is anonymous.
func Required(ctx context.Context) (*Principal, error) {
	principal := FromContext(ctx)
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return principal, nil
}
