// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package uuid generates time-ordered Version 7 identifiers.

Listings, transactions, messages, review requests and wizard instances all use
them so that ids sort by creation time.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// Short returns the last eight hex characters of a new id, used in listing slugs.
// The leading characters of a v7 id are the timestamp and repeat for about a minute.
func Short() string {
	id := New()
	return id[len(id)-8:]
}
