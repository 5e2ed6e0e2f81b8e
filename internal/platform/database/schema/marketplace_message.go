// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package schema

// MessageTable represents the 'public.messages' table
type MessageTable struct {
	Table      string
	ID         string
	SenderID   string
	ReceiverID string
	AdID       string
	Content    string
	CreatedAt  string
}

// Message is the schema definition for public.messages
var Message = MessageTable{
	Table:      "public.messages",
	ID:         "id",
	SenderID:   "sender_id",
	ReceiverID: "receiver_id",
	AdID:       "ad_id",
	Content:    "content",
	CreatedAt:  "created_at",
}

// Columns returns all standard column names
func (t MessageTable) Columns() []string {
	return []string{t.ID, t.SenderID, t.ReceiverID, t.AdID, t.Content, t.CreatedAt}
}
