// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package query parses optional URL query values.
//
// Malformed values are treated as absent so list endpoints never fail on a
// bad filter; callers that must reject bad input validate explicitly.
package query

import (
	"strconv"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Int64 parses an optional integer. It returns nil when val is empty or not a number.
func Int64(val string) *int64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
