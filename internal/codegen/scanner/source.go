package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultSourceCacheSize = 512

// SourceIndex is the set of native source files definition headers are
// searched in. File contents are cached so repeated lookups do not re-read
// the tree.
type SourceIndex struct {
	files []string
	cache *lru.Cache[string, string]
}

// NewSourceIndex lists every *.cpp file below root in lexical order. A
// missing root yields an empty index.
func NewSourceIndex(root string, cacheSize int) (*SourceIndex, error) {
	if cacheSize <= 0 {
		cacheSize = defaultSourceCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}
	idx := &SourceIndex{cache: cache}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".cpp") {
			idx.files = append(idx.files, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(idx.files)
	return idx, nil
}

// Files returns the indexed paths.
func (s *SourceIndex) Files() []string { return s.files }

func (s *SourceIndex) read(path string) (string, bool) {
	if data, ok := s.cache.Get(path); ok {
		return data, true
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	data := string(raw)
	s.cache.Add(path, data)
	return data, true
}

func headerPattern(module, fn string) *regexp.Regexp {
	qualified := regexp.QuoteMeta(fn)
	if module != "" {
		qualified = regexp.QuoteMeta(module) + "::" + qualified
	}
	return regexp.MustCompile(`(?m)^.+[\s*]+(?:DFHack::)?` + qualified + `\s?\(\n?(?:.|,\n)*?\n?\)[\s\w]+\{`)
}

// FindSignature searches for the definition header of module::fn, falling
// back to a bare fn definition. Matches that look like control flow or
// stream expressions are rejected. ok is false when nothing matched.
func (s *SourceIndex) FindSignature(module, fn string) (string, bool) {
	var patterns []*regexp.Regexp
	if module != "" {
		patterns = append(patterns, headerPattern(module, fn))
	}
	patterns = append(patterns, headerPattern("", fn))

	for _, re := range patterns {
		for _, path := range s.files {
			data, ok := s.read(path)
			if !ok {
				continue
			}
			for _, m := range re.FindAllString(data, -1) {
				if sig, ok := cleanHeader(m); ok {
					return sig, true
				}
			}
		}
	}
	return "", false
}

func cleanHeader(m string) (string, bool) {
	sig := strings.ReplaceAll(m, "\n", "")
	sig = strings.ReplaceAll(sig, "{", "")
	sig = strings.ReplaceAll(sig, "DFHACK_EXPORT ", "")
	sig = strings.TrimSpace(sig)
	if strings.HasPrefix(sig, "if (") || strings.HasPrefix(sig, "<<") ||
		strings.Index(sig, "&&") > 0 || strings.Index(sig, "->") > 0 {
		return "", false
	}
	return sig, true
}
