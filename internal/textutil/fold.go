// Package textutil holds small string helpers shared by the scanner, the
// cache and the CLI.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s. A Caser is stateful, so each call
// builds its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether folded, which must already be case-folded,
// occurs in s under case folding.
func ContainsFold(s, folded string) bool {
	return strings.Contains(Fold(s), folded)
}
