// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package schema

// VerificationRequestTable represents the 'public.verification_requests' table
type VerificationRequestTable struct {
	Table          string
	ID             string
	UserID         string
	FullName       string
	NIDNumber      string
	FrontImage     string
	BackImage      string
	PaymentMethod  string
	TransactionRef string
	Amount         string
	Status         string
	CreatedAt      string
}

// VerificationRequest is the schema definition for public.verification_requests
var VerificationRequest = VerificationRequestTable{
	Table:          "public.verification_requests",
	ID:             "id",
	UserID:         "user_id",
	FullName:       "full_name",
	NIDNumber:      "nid_number",
	FrontImage:     "front_image",
	BackImage:      "back_image",
	PaymentMethod:  "payment_method",
	TransactionRef: "transaction_ref",
	Amount:         "amount",
	Status:         "status",
	CreatedAt:      "created_at",
}

// BoostRequestTable represents the 'public.boost_requests' table
type BoostRequestTable struct {
	Table          string
	ID             string
	AdID           string
	UserID         string
	Days           string
	Price          string
	PaymentMethod  string
	TransactionRef string
	Status         string
	CreatedAt      string
}

// BoostRequest is the schema definition for public.boost_requests
var BoostRequest = BoostRequestTable{
	Table:          "public.boost_requests",
	ID:             "id",
	AdID:           "ad_id",
	UserID:         "user_id",
	Days:           "days",
	Price:          "price",
	PaymentMethod:  "payment_method",
	TransactionRef: "transaction_ref",
	Status:         "status",
	CreatedAt:      "created_at",
}
