package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

// Strategy transforms a raw input string into its normalized form.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeDisplayName trims and collapses whitespace in a user or resource
// display name, preserving case.
func NormalizeDisplayName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLocation trims and collapses whitespace in a resource location.
func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

// SanitizeKey lowercases an identifier-like string and replaces anything that
// is not a letter or digit with single underscores. Used for stable lookup
// keys derived from free-form input.
func SanitizeKey(input string) string {
	p := Pipeline{
		func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// NormalizeRole lowercases and trims a role string so role matching is
// case-insensitive.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
