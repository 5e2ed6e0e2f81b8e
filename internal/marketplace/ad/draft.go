// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"strings"

	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/pkg/slice"
	"github.com/bazaari/bazaari/pkg/slug"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// # Field Identifiers

const (
	FieldTitle        = "title"
	FieldCategory     = "category"
	FieldPrice        = "price"
	FieldLocation     = "location"
	FieldCondition    = "condition"
	FieldRentalTarget = "rental_target"
	FieldImages       = "images"
	FieldDescription  = "description"
)

const (
	titleMaxLength       = 120
	descriptionMaxLength = 5000
)

// Draft is the post-ad form as submitted by a seller.
type Draft struct {
	Title        string        `json:"title"`
	Category     Category      `json:"category"`
	Description  string        `json:"description"`
	Price        int64         `json:"price"`
	Location     string        `json:"location"`
	District     string        `json:"district"`
	Condition    *Condition    `json:"condition,omitempty"`
	RentalTarget *RentalTarget `json:"rental_target,omitempty"`
	Images       []string      `json:"images"`
}

// Normalize trims text fields and drops blank image entries.
func (draft Draft) Normalize() Draft {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.District = strings.TrimSpace(draft.District)
	draft.Images = slice.Filter(draft.Images, func(image string) bool {
		return strings.TrimSpace(image) != ""
	})
	return draft
}

/*
Validate checks a normalized draft.

Rules:
  - Title required, price positive, location one of the divisions.
  - Between one and [constants.ListingMaxImages] images.
  - To Let needs a rental target and takes no condition; every other category
    takes an optional condition and no rental target.
*/
func (draft Draft) Validate() error {
	categories := slice.Map(Categories, func(category Category) string { return string(category) })

	validator := (&validate.Validator{}).
		Required(FieldTitle, draft.Title).
		MaxLen(FieldTitle, draft.Title, titleMaxLength).
		OneOf(FieldCategory, string(draft.Category), categories...).
		Positive(FieldPrice, draft.Price).
		OneOf(FieldLocation, draft.Location, constants.Locations...).
		MaxLen(FieldDescription, draft.Description, descriptionMaxLength).
		Custom(FieldImages, len(draft.Images) == 0, "At least one image is required").
		Custom(FieldImages, len(draft.Images) > constants.ListingMaxImages, "At most 5 images are allowed")

	if draft.Category == CategoryToLet {
		validator.
			Custom(FieldRentalTarget, draft.RentalTarget == nil, "Rental target is required for To Let").
			Custom(FieldCondition, draft.Condition != nil, "Condition does not apply to To Let")
		if draft.RentalTarget != nil {
			validator.OneOf(FieldRentalTarget, string(*draft.RentalTarget),
				string(RentalBachelor), string(RentalFamily), string(RentalBoth))
		}
	} else {
		validator.Custom(FieldRentalTarget, draft.RentalTarget != nil, "Rental target only applies to To Let")
		if draft.Condition != nil {
			validator.OneOf(FieldCondition, string(*draft.Condition),
				string(ConditionNew), string(ConditionUsed), string(ConditionRefurbished))
		}
	}

	return validator.Err()
}

// listing turns a validated draft into a pending, unboosted listing for sellerID.
func (draft Draft) listing(sellerID string) *Listing {
	return &Listing{
		ID:           uuid.New(),
		Slug:         slug.WithSuffix(draft.Title, uuid.Short()),
		Title:        draft.Title,
		Category:     draft.Category,
		Description:  draft.Description,
		Price:        draft.Price,
		Location:     draft.Location,
		District:     draft.District,
		Condition:    draft.Condition,
		RentalTarget: draft.RentalTarget,
		Images:       draft.Images,
		SellerID:     sellerID,
		Status:       StatusPending,
	}
}
