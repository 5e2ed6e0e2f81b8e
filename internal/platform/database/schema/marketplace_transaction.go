// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package schema

// TransactionTable represents the 'public.transactions' table
type TransactionTable struct {
	Table       string
	ID          string
	UserID      string
	Amount      string
	Type        string
	Description string
	PaymentRef  string
	Status      string
	CreatedAt   string
}

// Transaction is the schema definition for public.transactions
var Transaction = TransactionTable{
	Table:       "public.transactions",
	ID:          "id",
	UserID:      "user_id",
	Amount:      "amount",
	Type:        "type",
	Description: "description",
	PaymentRef:  "payment_ref",
	Status:      "status",
	CreatedAt:   "created_at",
}

// Columns returns all standard column names
func (t TransactionTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Amount, t.Type, t.Description, t.PaymentRef, t.Status, t.CreatedAt}
}
