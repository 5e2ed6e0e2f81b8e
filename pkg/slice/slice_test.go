// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaari/bazaari/pkg/slice"
)

func TestFilterMapFind(t *testing.T) {
	prices := []int{150, 299, 550}

	assert.Equal(t, []int{299, 550}, slice.Filter(prices, func(p int) bool { return p > 200 }))
	assert.Nil(t, slice.Filter[int](nil, func(int) bool { return true }))
	assert.Equal(t, []string{"150", "299"}, slice.Map(prices[:2], strconv.Itoa))

	found, ok := slice.Find(prices, func(p int) bool { return p > 200 })
	assert.True(t, ok)
	assert.Equal(t, 299, found)

	_, ok = slice.Find(prices, func(p int) bool { return p > 1000 })
	assert.False(t, ok)
}
