package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog file lists no substrings
var ErrEmptyCatalog = errors.New("catalog file has no entries")

// Lists is the on-disk form of a flag catalog:
//
//	extend_defaults: true
//	irritants:
//	  - methylisothiazolinone
//	comedogenic:
//	  - cocoa butter
type Lists struct {
	// ExtendDefaults appends these lists to the built-in catalog instead of replacing it
	ExtendDefaults bool     `yaml:"extend_defaults"`
	Irritants      []string `yaml:"irritants"`
	Comedogenic    []string `yaml:"comedogenic"`
}

// Load reads a catalog YAML file
func Load(path string) (*Lists, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	lists, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return lists, nil
}

// Decode parses catalog YAML, rejecting unknown keys
func Decode(r io.Reader) (*Lists, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var lists Lists
	if err := dec.Decode(&lists); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	if len(lists.Irritants) == 0 && len(lists.Comedogenic) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &lists, nil
}

// Merge returns the lists to build a catalog from, given the built-in defaults
func (l *Lists) Merge(defaultIrritants, defaultComedogenic []string) (irritants, comedogenic []string) {
	if !l.ExtendDefaults {
		return append([]string(nil), l.Irritants...), append([]string(nil), l.Comedogenic...)
	}

	irritants = appendMissing(append([]string(nil), defaultIrritants...), l.Irritants)
	comedogenic = appendMissing(append([]string(nil), defaultComedogenic...), l.Comedogenic)
	return irritants, comedogenic
}

// appendMissing appends the entries of extra not yet in base, comparing
// case-insensitively and ignoring surrounding space
func appendMissing(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[entryKey(s)] = true
	}
	for _, s := range extra {
		key := entryKey(s)
		if !seen[key] {
			base = append(base, s)
			seen[key] = true
		}
	}
	return base
}

func entryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
