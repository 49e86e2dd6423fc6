package common

import (
	"cmp"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var title = cases.Title(language.Und)

// ModuleName capitalizes a module identifier: the first letter upper case,
// the rest lower case ("job" and "JOB" both give "Job").
func ModuleName(name string) string {
	if name == "" {
		return ""
	}
	return title.String(name)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
