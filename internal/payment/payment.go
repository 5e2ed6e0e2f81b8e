// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package payment models the manual mobile-money confirmation shared by the
// deposit, premium upgrade and boost wizards: the user sends money out of band
// and types the provider's transaction id back in.
package payment

import (
	"strings"

	"github.com/bazaari/bazaari/internal/platform/validate"
)

// Method is a supported mobile-money provider.
type Method string

const (
	MethodBKash  Method = "bKash"
	MethodNagad  Method = "Nagad"
	MethodRocket Method = "Rocket"
)

// DefaultMethod is pre-selected in every payment step.
const DefaultMethod = MethodBKash

// Methods lists the providers in display order.
var Methods = []Method{MethodBKash, MethodNagad, MethodRocket}

// IsValid reports whether m is a supported provider.
func (m Method) IsValid() bool {
	switch m {
	case MethodBKash, MethodNagad, MethodRocket:
		return true
	default:
		return false
	}
}

// Reference is the out-of-band payment the user claims to have made.
type Reference struct {
	Method        Method `json:"method"`
	TransactionID string `json:"transaction_id"`
}

// Normalize trims the transaction id.
func (reference Reference) Normalize() Reference {
	reference.TransactionID = strings.TrimSpace(reference.TransactionID)
	return reference
}

// Validate requires a known method and a non-empty transaction id.
func (reference Reference) Validate() error {
	names := make([]string, len(Methods))
	for i, method := range Methods {
		names[i] = string(method)
	}

	return (&validate.Validator{}).
		OneOf("method", string(reference.Method), names...).
		Required("transaction_id", reference.TransactionID).
		MaxLen("transaction_id", reference.TransactionID, 64).
		Err()
}
