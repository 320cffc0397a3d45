// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package randid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancanh/havenest/pkg/randid"
)

/*
TestNew_Length verifies the generated identifier matches the requested length.
*/
func TestNew_Length(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"username_length", 6},
		{"short", 1},
		{"long", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := randid.New(tt.length)
			require.NoError(t, err)
			assert.Len(t, id, tt.length)
		})
	}
}

/*
TestNew_Alphabet verifies output is restricted to lowercase alphanumerics.
*/
func TestNew_Alphabet(t *testing.T) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	for range 50 {
		id := randid.Must(6)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, id)
		}
	}
}

/*
TestNew_InvalidLength verifies non-positive lengths are rejected.
*/
func TestNew_InvalidLength(t *testing.T) {
	_, err := randid.New(0)
	assert.Error(t, err)

	_, err = randid.New(-3)
	assert.Error(t, err)
}

/*
TestNew_Uniqueness samples a batch of identifiers and expects no collision.
A 6-char id has 36^6 (~2.1B) combinations, so 1000 samples colliding would
indicate a broken generator rather than bad luck.
*/
func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)

	for range 1000 {
		id := randid.Must(6)
		assert.False(t, seen[id], "collision on %q", id)
		seen[id] = true
	}
}
