// Package slugs derives the stable keys used to match portfolio entities
// across imports and to look them up from the command line.
package slugs

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Key converts a display name into a lookup key ("Billing Revamp 2.0" ->
// "billing-revamp-2-0"). Names that slugify to nothing fall back to a
// lowercased, dash-joined form of their words.
func Key(name string) string {
	name = strings.TrimSpace(name)
	k := goslug.Make(name)
	if k == "" {
		k = strings.ToLower(strings.Join(strings.Fields(name), "-"))
	}
	return k
}

// Unique returns base, or base suffixed with -2, -3, ... until taken reports
// false.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// IsKey reports whether s is already in key form.
func IsKey(s string) bool {
	return s != "" && goslug.IsSlug(s)
}
