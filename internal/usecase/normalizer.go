package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Compiled regex patterns for ingredient normalization
var (
	// Shortest "(...)" span; nested parentheses are not balanced
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

	// Forward slash, backslash and newline act as list separators
	separatorPattern = regexp.MustCompile(`[/\\\n]`)

	// Anything that is not a lowercase ascii letter, digit, comma or space
	disallowedCharPattern = regexp.MustCompile(`[^a-z0-9, ]`)

	whitespacePattern = regexp.MustCompile(`\s+`)

	// A comma run, including whitespace before each comma
	repeatedCommaPattern = regexp.MustCompile(`\s*,(\s*,)*`)
)

// Normalize canonicalizes a free-form ingredient list into a comma-delimited,
// lowercase token stream. It never fails; empty input yields "".
//
// The result contains only [a-z0-9, ], no parenthetical content, no
// consecutive commas and no leading or trailing separator. Normalize is
// idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Step 1: Lowercase (full unicode mapping, the ascii filter runs later)
	cleaned := cases.Lower(language.Und).String(text)

	// Step 2: Drop parenthetical remarks like "(water)" or "(ci 77891)"
	cleaned = parentheticalPattern.ReplaceAllString(cleaned, "")

	// Step 3: Turn "/", "\" and line breaks into commas
	cleaned = separatorPattern.ReplaceAllString(cleaned, ",")

	// Step 4: Strip punctuation and non-ascii characters
	cleaned = disallowedCharPattern.ReplaceAllString(cleaned, "")

	// Step 5: Normalize whitespace
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Step 6: Collapse ",,", " , ," and longer runs into a single comma
	cleaned = repeatedCommaPattern.ReplaceAllString(cleaned, ",")

	return strings.Trim(cleaned, " ,")
}

// NormalizeOptional is Normalize for an ingredient list that may be absent.
func NormalizeOptional(text *string) string {
	if text == nil {
		return ""
	}
	return Normalize(*text)
}
