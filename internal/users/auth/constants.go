// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package auth

// # Request Fields

const (
	FieldMode     = "mode"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldCode     = "code"
	FieldIndex    = "index"
	FieldDigit    = "value"
)

// # Credential Constraints

const (
	// PasswordMinLength mirrors the provider's minimum.
	PasswordMinLength = 6

	// PasswordMaxLength bounds what is forwarded to the provider.
	PasswordMaxLength = 72
)

// FlowName labels transitions in metrics and errors.
const FlowName = "otp"
