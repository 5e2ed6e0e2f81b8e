// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package pointer converts between values and the optional pointer fields used
by profile edits, listing attributes and nullable columns.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer.
// If the pointer is nil, it returns the zero value of the underlying type.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Text converts an optional string-kinded value into an optional plain string,
// the shape pgx binds to a nullable TEXT column.
func Text[T ~string](p *T) *string {
	if p == nil {
		return nil
	}
	text := string(*p)
	return &text
}
