// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaari/bazaari/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "iPhone 13 Pro (128GB)", "iphone-13-pro-128gb"},
		{"accents", "Café Crème", "cafe-creme"},
		{"punctuation", "  --Flat, 2 beds!! ", "flat-2-beds"},
		{"bengali_only", "বাসা ভাড়া", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "honda-cb-hornet-0a1b2c3d", slug.WithSuffix("Honda CB Hornet", "0a1b2c3d"))
	assert.Equal(t, "0a1b2c3d", slug.WithSuffix("বাসা ভাড়া", "0a1b2c3d"))
}
