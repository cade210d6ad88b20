// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HumanizeName turns a snake_case feature name into a display label,
// e.g. "public_speaking_comfort" becomes "Public Speaking Comfort".
func HumanizeName(name string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
