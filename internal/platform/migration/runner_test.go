// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/bazaari", "pgx5://u:p@db:5432/bazaari"},
		{"postgresql://db/bazaari", "pgx5://db/bazaari"},
		{"pgx5://db/bazaari", "pgx5://db/bazaari"},
		{"host=db dbname=bazaari", "host=db dbname=bazaari"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
	}
}
