// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/pkg/pointer"
)

type condition string

func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, int64(3), pointer.Val(pointer.To(int64(3))))
}

func TestText(t *testing.T) {
	assert.Nil(t, pointer.Text[condition](nil))

	text := pointer.Text(pointer.To(condition("Used")))
	require.NotNil(t, text)
	assert.Equal(t, "Used", *text)
}
