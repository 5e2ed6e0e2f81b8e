// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package schema

// AdTable represents the 'public.ads' table
type AdTable struct {
	Table        string
	ID           string
	Slug         string
	Title        string
	Category     string
	Description  string
	Price        string
	Location     string
	District     string
	Condition    string
	RentalTarget string
	Images       string
	SellerID     string
	IsBoosted    string
	BoostExpiry  string
	Views        string
	Clicks       string
	Status       string
	CreatedAt    string
}

// Ad is the schema definition for public.ads
var Ad = AdTable{
	Table:        "public.ads",
	ID:           "id",
	Slug:         "slug",
	Title:        "title",
	Category:     "category",
	Description:  "description",
	Price:        "price",
	Location:     "location",
	District:     "district",
	Condition:    "condition",
	RentalTarget: "rental_target",
	Images:       "images",
	SellerID:     "seller_id",
	IsBoosted:    "is_boosted",
	BoostExpiry:  "boost_expiry",
	Views:        "views",
	Clicks:       "clicks",
	Status:       "status",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names
func (t AdTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Category, t.Description, t.Price, t.Location,
		t.District, t.Condition, t.RentalTarget, t.Images, t.SellerID,
		t.IsBoosted, t.BoostExpiry, t.Views, t.Clicks, t.Status, t.CreatedAt,
	}
}
