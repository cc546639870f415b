// Package textutil provides text normalization helpers for match scoring.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeForMatch case-folds the input and collapses all whitespace runs
// to single spaces so catalog titles can be compared byte-wise. Case
// folding (rather than ASCII lowercasing) keeps comparisons stable for
// accented and non-Latin titles.
func NormalizeForMatch(s string) string {
	folded := cases.Fold().String(s)
	return strings.Join(strings.Fields(folded), " ")
}
