package models

import "strings"

// NormalizeName upper-cases a name and collapses internal whitespace. Both
// attendance and payment names pass through it when they are read.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}
