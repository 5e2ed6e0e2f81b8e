// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package schema holds column maps for the backend tables so that stores build
// queries from one source of truth.
package schema

// ProfileTable represents the 'public.profiles' table
type ProfileTable struct {
	Table            string
	ID               string
	Name             string
	Email            string
	Phone            string
	PhotoURL         string
	Bio              string
	Role             string
	IsVerified       string
	TwoFactorEnabled string
	WalletBalance    string
	FollowersCount   string
	FollowingCount   string
	FriendsCount     string
	TotalAds         string
	CreatedAt        string
	UpdatedAt        string
}

// Profile is the schema definition for public.profiles
var Profile = ProfileTable{
	Table:            "public.profiles",
	ID:               "id",
	Name:             "name",
	Email:            "email",
	Phone:            "phone_number",
	PhotoURL:         "photo_url",
	Bio:              "bio",
	Role:             "role",
	IsVerified:       "is_verified",
	TwoFactorEnabled: "is_two_factor_enabled",
	WalletBalance:    "wallet_balance",
	FollowersCount:   "followers_count",
	FollowingCount:   "following_count",
	FriendsCount:     "friends_count",
	TotalAds:         "total_ads",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
}

// Columns returns the columns read when materializing a principal.
func (t ProfileTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Phone, t.PhotoURL, t.Bio, t.Role, t.IsVerified,
		t.TwoFactorEnabled, t.WalletBalance, t.FollowersCount, t.FollowingCount,
		t.FriendsCount, t.TotalAds, t.CreatedAt,
	}
}
