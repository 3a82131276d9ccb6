// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package suggest picks the known name closest to a misspelled one for
// did-you-mean hints.
package suggest

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Threshold is the minimum similarity a candidate needs to be suggested.
const Threshold = 0.6

// Closest returns the candidate most similar to name. Ties go to the
// earliest candidate. It reports false when no candidate reaches
// Threshold or the only match is name itself.
func Closest(name string, candidates []string) (string, bool) {
	best, bestSim := "", 0.0
	for _, c := range candidates {
		if c == name {
			continue
		}
		if sim := Similarity(name, c); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	if bestSim < Threshold {
		return "", false
	}
	return best, true
}

// Similarity computes the Levenshtein-based similarity ratio between two
// strings. Returns a value between 0.0 and 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := max(len(a), len(b))
	return 1.0 - float64(distance)/float64(maxLen)
}
