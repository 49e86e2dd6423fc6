package scanner

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// DocKey addresses a documented function by owner and function name, both
// lowercased.
type DocKey struct {
	Owner string
	Func  string
}

// Docs maps documented functions to their description text.
type Docs map[DocKey]string

// Lookup returns the description for owner.fn, matching case-insensitively.
func (d Docs) Lookup(owner, fn string) (string, bool) {
	text, ok := d[DocKey{Owner: strings.ToLower(owner), Func: strings.ToLower(fn)}]
	return text, ok
}

// A bullet opens with one or more ``name(args)`` items and is followed by an
// indented description; a description line never starts a new bullet.
var docsPattern = regexp2.MustCompile(
	"\\*\\s+``(?<name1>[^`]+?)``(?:(?:, |\\n\\*\\s+|\\n  |, or )``(?<namek>[^`]+?)``)*\\n\\n(?<descr>(?:\\n|(?!\\*)[ \\.]+[^\\n]+)+)",
	regexp2.Multiline,
)

// ParseDocs extracts function descriptions from the reStructuredText API
// reference.
func ParseDocs(text string) (Docs, error) {
	out := Docs{}
	m, err := docsPattern.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = docsPattern.FindNextMatch(m) {
		descr := m.GroupByName("descr").String()
		if descr == "" {
			continue
		}
		descr = descr[:len(descr)-1]

		var names []string
		for _, group := range []string{"name1", "namek"} {
			for _, c := range m.GroupByName(group).Captures {
				names = append(names, c.String())
			}
		}
		for _, name := range names {
			owner, fn, _ := SplitName(name)
			if fn == "" {
				continue
			}
			out[DocKey{Owner: strings.ToLower(strings.TrimSpace(owner)), Func: strings.ToLower(strings.TrimSpace(fn))}] = descr
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SplitName splits a documented or defined name such as `dfhack.units.getPosition(unit)`
// or `Painter:fill(x1,y1)` into its owner and function. withSelf is set for
// method-call syntax.
func SplitName(value string) (owner, fn string, withSelf bool) {
	for _, s := range []string{"dfhack.", "dfhack:", "function", "=", "{", "}", "'", "?"} {
		value = strings.ReplaceAll(value, s, "")
	}
	value, _, _ = strings.Cut(strings.TrimSpace(value), "(")

	if o, f, ok := strings.Cut(value, ":"); ok {
		f, _, _ = strings.Cut(f, ":")
		return o, f, true
	}
	if o, f, ok := strings.Cut(value, "."); ok {
		f, _, _ = strings.Cut(f, ".")
		return o, f, false
	}
	return "", value, false
}
