// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity canonicalizes paper identifiers and titles into
// comparable keys.
package identity

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// doiPattern matches a bare DOI after prefix stripping: "10.1145/1234567.1234568".
// The registrant part is not length-checked.
var doiPattern = regexp.MustCompile(`^10\.\d+/\S+$`)

// resolverPrefixes are stripped from DOIs, longest first. Matching is
// case-insensitive because the input is lower-cased first.
var resolverPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeDOI lower-cases a DOI and strips resolver prefixes. It returns ""
// when the input does not look like a DOI.
func NormalizeDOI(raw string) string {
	doi := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range resolverPrefixes {
		if strings.HasPrefix(doi, p) {
			doi = strings.TrimSpace(doi[len(p):])
			break
		}
	}
	if strings.Contains(doi, "%") {
		if unescaped, err := url.PathUnescape(doi); err == nil {
			doi = unescaped
		}
	}
	doi = strings.TrimRight(doi, ".,;")
	if !doiPattern.MatchString(doi) {
		return ""
	}
	return doi
}

// TitleKey returns the fallback canonical key for a title: lower-cased,
// alphanumeric characters only. A DOI key always contains "/" so the two
// key spaces never collide.
func TitleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalKey returns the normalized DOI if doi is usable, otherwise the
// title key. It returns "" when neither yields a key.
func CanonicalKey(doi, title string) string {
	if d := NormalizeDOI(doi); d != "" {
		return d
	}
	return TitleKey(title)
}

// FoldText lower-cases s, replaces punctuation with spaces, and collapses
// whitespace. Used for free-text comparisons such as venue names.
func FoldText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
