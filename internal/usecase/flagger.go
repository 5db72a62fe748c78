package usecase

import (
	"strings"

	"github.com/skinlens/backend/internal/domain"
)

// DefaultIrritants are the built-in irritant substrings, in report order
var DefaultIrritants = []string{
	"fragrance", "parfum", "limonene", "linalool",
	"sodium laureth sulfate", "sodium lauryl sulfate",
	"alcohol denat", "cocamide dea", "cocamide mea",
}

// DefaultComedogenic are the built-in comedogenic substrings, in report order
var DefaultComedogenic = []string{
	"coconut oil", "isopropyl myristate", "lanolin",
	"mineral oil", "wheat germ oil", "almond oil", "shea butter",
}

// Catalog holds the irritant and comedogenic substrings checked by Flag.
// A Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	irritants   []string
	comedogenic []string
}

// NewCatalog creates a catalog from the given lists. The lists are copied;
// entries are lowercased and trimmed, and blank or repeated entries are
// dropped.
func NewCatalog(irritants, comedogenic []string) *Catalog {
	return &Catalog{
		irritants:   cleanCatalogEntries(irritants),
		comedogenic: cleanCatalogEntries(comedogenic),
	}
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultIrritants, DefaultComedogenic)
}

// Irritants returns a copy of the irritant list
func (c *Catalog) Irritants() []string {
	return append([]string(nil), c.irritants...)
}

// Comedogenic returns a copy of the comedogenic list
func (c *Catalog) Comedogenic() []string {
	return append([]string(nil), c.comedogenic...)
}

// Size returns the total number of entries
func (c *Catalog) Size() int {
	return len(c.irritants) + len(c.comedogenic)
}

func cleanCatalogEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !seen[e] {
			out = append(out, e)
			seen[e] = true
		}
	}
	return out
}

// Flag reports every catalog entry contained in the canonical ingredient
// string: all irritant hits in catalog order, then all comedogenic hits in
// catalog order. Matching is plain substring containment, so "alcohol denat"
// also matches inside "alcohol denatured".
func Flag(canonical string, catalog *Catalog) []domain.FlagEntry {
	flags := []domain.FlagEntry{}
	if canonical == "" || catalog == nil {
		return flags
	}

	for _, item := range catalog.irritants {
		if strings.Contains(canonical, item) {
			flags = append(flags, domain.FlagEntry{Category: domain.FlagIrritant, Item: item})
		}
	}
	for _, item := range catalog.comedogenic {
		if strings.Contains(canonical, item) {
			flags = append(flags, domain.FlagEntry{Category: domain.FlagComedogenic, Item: item})
		}
	}

	return flags
}
