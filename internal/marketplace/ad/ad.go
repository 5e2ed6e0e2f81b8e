// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package ad holds marketplace listings: publishing, the home feed, the boost
payment wizard and the optional AI description assistant.

# Feed

The home feed splits listings into a featured (boosted) rail and a recent
(regular) grid with [Partition]. Sort order is never changed; the combined
ordering puts every regular listing before every boosted one.

# Boost

	choosing-plan -> entering-payment-ref -> submitted-pending-review
	entering-payment-ref -> choosing-plan (back)

A boost is a claim reviewed by a moderator; submitting writes one pending
boost request and never flips the listing's boosted flag.
*/
package ad

import (
	"context"
	"time"

	"github.com/bazaari/bazaari/pkg/pagination"
)

// # Listing Model

// Category is one of the fixed listing categories.
type Category string

const (
	CategoryMobile      Category = "Mobile Phones"
	CategoryElectronics Category = "Electronics"
	CategoryVehicles    Category = "Vehicles"
	CategoryProperty    Category = "Property"
	CategoryToLet       Category = "To Let"
	CategoryHomeLiving  Category = "Home & Living"
	CategoryServices    Category = "Services"
	CategoryJobs        Category = "Jobs"
	CategoryOthers      Category = "Others"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMobile, CategoryElectronics, CategoryVehicles, CategoryProperty, CategoryToLet,
	CategoryHomeLiving, CategoryServices, CategoryJobs, CategoryOthers,
}

// Condition describes the state of a sold item.
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
)

// RentalTarget is the intended tenant of a To Let listing.
type RentalTarget string

const (
	RentalBachelor RentalTarget = "Bachelor"
	RentalFamily   RentalTarget = "Family"
	RentalBoth     RentalTarget = "Both"
)

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Listing is a published ad.
type Listing struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Category     Category      `json:"category"`
	Description  string        `json:"description"`
	Price        int64         `json:"price"`
	Location     string        `json:"location"`
	District     string        `json:"district"`
	Condition    *Condition    `json:"condition,omitempty"`
	RentalTarget *RentalTarget `json:"rental_target,omitempty"`
	Images       []string      `json:"images"`
	SellerID     string        `json:"seller_id"`
	IsBoosted    bool          `json:"is_boosted"`
	BoostExpiry  *time.Time    `json:"boost_expiry,omitempty"`
	Views        int64         `json:"views"`
	Clicks       int64         `json:"clicks"`
	Status       Status        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// IsRental reports whether the price is a monthly rent.
func (listing *Listing) IsRental() bool {
	return listing.Category == CategoryToLet
}

// Filter narrows the feed. Zero values match everything.
type Filter struct {
	Categories []Category
	Location   string
	Search     string

	// Inclusive price bounds.
	MinPrice *int64
	MaxPrice *int64
}

// # Storage

// Store persists listings and boost requests.
type Store interface {
	Insert(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)

	// List returns listings newest first with the total matching count.
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Listing, int, error)

	// ListBySeller returns one seller's listings newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]*Listing, error)

	InsertBoostRequest(ctx context.Context, request *BoostRequest) error
}
