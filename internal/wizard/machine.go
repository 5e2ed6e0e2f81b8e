// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package wizard provides the building blocks shared by every multi-step flow:

  - Machine: an explicit tagged state with an enumerated edge table.
  - Registry: ephemeral per-instance storage with sequential step execution.
  - Cooldown: a resend window driven by an injectable Clock.

Wizard state is never persisted. Abandoning an instance at any non-terminal
state leaves no remote trace because flows only write on their submit step.
*/
package wizard

import (
	"github.com/bazaari/bazaari/internal/platform/apperr"
)

// Observer is notified after every accepted transition.
type Observer interface {
	ObserveTransition(flow, state string)
}

// Machine holds the current state of one wizard instance.
//
// A state with no outgoing edges is terminal: it refuses every transition,
// so a finished wizard cannot be resumed.
type Machine[S ~string] struct {
	flow     string
	state    S
	edges    map[S][]S
	observer Observer
}

// NewMachine creates a machine positioned on initial. A nil observer is allowed.
func NewMachine[S ~string](flow string, initial S, edges map[S][]S, observer Observer) *Machine[S] {
	machine := &Machine[S]{flow: flow, state: initial, edges: edges, observer: observer}
	machine.observe()
	return machine
}

// State returns the current state.
func (machine *Machine[S]) State() S {
	return machine.state
}

// Is reports whether the machine is on state.
func (machine *Machine[S]) Is(state S) bool {
	return machine.state == state
}

// Terminal reports whether the current state has no outgoing edges.
func (machine *Machine[S]) Terminal() bool {
	return len(machine.edges[machine.state]) == 0
}

// Can reports whether to is an enumerated edge from the current state.
func (machine *Machine[S]) Can(to S) bool {
	for _, candidate := range machine.edges[machine.state] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Advance moves to the target state or returns INVALID_TRANSITION.
func (machine *Machine[S]) Advance(to S) error {
	if !machine.Can(to) {
		return apperr.InvalidTransition(machine.flow, string(machine.state), string(to))
	}
	machine.state = to
	machine.observe()
	return nil
}

// Require returns INVALID_TRANSITION unless the machine is on state.
// Steps use it to reject actions that belong to another state.
func (machine *Machine[S]) Require(state S) error {
	if machine.state != state {
		return apperr.InvalidTransition(machine.flow, string(machine.state), string(state))
	}
	return nil
}

func (machine *Machine[S]) observe() {
	if machine.observer != nil {
		machine.observer.ObserveTransition(machine.flow, string(machine.state))
	}
}
