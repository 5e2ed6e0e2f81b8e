// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

// Partitioned is a feed split by the boosted flag.
type Partitioned struct {
	Boosted []*Listing `json:"featured"`
	Regular []*Listing `json:"recent"`
}

/*
Partition splits listings into boosted and regular, keeping the input order
within each part. It does not sort and does not look at BoostExpiry.

Parameters:
  - listings: []*Listing (any order; nil entries are skipped)

Returns:
  - Partitioned: Both slices non-nil
*/
func Partition(listings []*Listing) Partitioned {
	result := Partitioned{
		Boosted: make([]*Listing, 0),
		Regular: make([]*Listing, 0, len(listings)),
	}

	for _, listing := range listings {
		if listing == nil {
			continue
		}
		if listing.IsBoosted {
			result.Boosted = append(result.Boosted, listing)
		} else {
			result.Regular = append(result.Regular, listing)
		}
	}
	return result
}

// Combined returns the regular listings followed by the boosted ones.
func (partitioned Partitioned) Combined() []*Listing {
	combined := make([]*Listing, 0, len(partitioned.Regular)+len(partitioned.Boosted))
	combined = append(combined, partitioned.Regular...)
	return append(combined, partitioned.Boosted...)
}
