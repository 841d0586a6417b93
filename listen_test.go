// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupID(t *testing.T) {
	t.Parallel()

	names := map[string]string{"www-data": "33", "weird": "abc"}
	lookup := func(name string) (string, error) {
		if id, ok := names[name]; ok {
			return id, nil
		}

		return "", errors.New("no such entry")
	}

	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", -1, false},
		{"1000", 1000, false},
		{"www-data", 33, false},
		{"weird", -1, true},
		{"nobody-here", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := lookupID(tt.value, lookup)
			if tt.wantErr {
				require.ErrorIs(t, err, errSocketOwner)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
