// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wizard

import (
	"math"
	"time"
)

// Clock supplies the current time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

// # Cooldown

// Cooldown gates an action until a fixed window has elapsed since its last start.
type Cooldown struct {
	window    time.Duration
	startedAt time.Time
}

// NewCooldown creates a cooldown that is already running from now.
func NewCooldown(window time.Duration, now time.Time) Cooldown {
	return Cooldown{window: window, startedAt: now}
}

// Restart begins a fresh window at now.
func (cooldown *Cooldown) Restart(now time.Time) {
	cooldown.startedAt = now
}

// Remaining returns the whole seconds left, rounded up, and never below zero.
// It only decreases as now advances.
func (cooldown Cooldown) Remaining(now time.Time) int {
	left := cooldown.startedAt.Add(cooldown.window).Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Ready reports whether the window has fully elapsed.
func (cooldown Cooldown) Ready(now time.Time) bool {
	return cooldown.Remaining(now) == 0
}
