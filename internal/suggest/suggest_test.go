// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
		wantOK     bool
	}{
		{
			name:       "single missing letter",
			input:      "widt",
			candidates: []string{"height", "width"},
			want:       "width",
			wantOK:     true,
		},
		{
			name:       "transposed letters",
			input:      "lenght",
			candidates: []string{"length", "main"},
			want:       "length",
			wantOK:     true,
		},
		{
			name:       "case difference",
			input:      "Counter",
			candidates: []string{"counter"},
			want:       "counter",
			wantOK:     true,
		},
		{
			name:       "one-letter names are never close",
			input:      "c",
			candidates: []string{"a", "b"},
			wantOK:     false,
		},
		{
			name:       "unrelated names",
			input:      "total",
			candidates: []string{"argv", "main"},
			wantOK:     false,
		},
		{
			name:       "the name itself is skipped",
			input:      "main",
			candidates: []string{"main"},
			wantOK:     false,
		},
		{
			name:       "no candidates",
			input:      "x",
			candidates: nil,
			wantOK:     false,
		},
		{
			name:       "earliest candidate wins a tie",
			input:      "ab",
			candidates: []string{"abc", "abd"},
			want:       "abc",
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.input, tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("printf", "printf"))
	assert.Equal(t, 0.0, Similarity("", "printf"))
	assert.InDelta(t, 0.8, Similarity("width", "widt"), 1e-9)
	assert.Less(t, Similarity("x", "y"), Threshold)
}
