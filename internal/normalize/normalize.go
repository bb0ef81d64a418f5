// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize derives identity keys from exported bibliographic
// records. The key is the normalized DOI when one can be extracted, and
// the normalized title otherwise. Two records denote the same work iff
// their keys are equal and non-empty; an empty key means the record has
// no usable identity signal and is never merged with anything.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// doiPattern matches a DOI registrant suffix anywhere in a string:
// "10.1109/ABC.2021.001", "10.1016/j.inffus.2020.06.014".
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/\S+`)

// resolverPrefix matches a leading DOI resolver URL, case-insensitively:
// "https://doi.org/", "http://dx.doi.org/", "doi.org/".
var resolverPrefix = regexp.MustCompile(`(?i)^(?:https?://)?(?:dx\.)?doi\.org/`)

// trailingPunct holds punctuation stripped from the end of an extracted
// DOI. Exports routinely carry a sentence period or a closing parenthesis
// glued onto the DOI.
const trailingPunct = ".,;)"

// DOIKey extracts and canonicalizes a DOI from a raw export field.
// It strips a resolver prefix, lowercases, takes the first substring
// matching the DOI registrant pattern, and trims trailing punctuation.
// Returns "" when no DOI can be extracted.
func DOIKey(raw string) string {
	s := strings.TrimSpace(raw)
	s = resolverPrefix.ReplaceAllString(s, "")
	s = strings.ToLower(strings.TrimSpace(s))

	m := doiPattern.FindString(s)
	if m == "" {
		return ""
	}
	return strings.TrimRight(m, trailingPunct)
}

// TitleKey canonicalizes a title for equality matching: Unicode canonical
// decomposition, lowercase, drop everything that is not an ASCII letter,
// digit, or space, and collapse whitespace runs. Returns "" for titles
// with no retained characters.
func TitleKey(raw string) string {
	decomposed := norm.NFD.String(raw)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range strings.ToLower(decomposed) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// IdentityKey computes the identity key for a record: the DOI key when
// one is extractable, the title key otherwise. A "" result marks the
// record as unkeyed. The function is pure; identical input always yields
// an identical key.
func IdentityKey(r types.Record) string {
	if key := DOIKey(r.RawDOI); key != "" {
		return key
	}
	return TitleKey(r.RawTitle)
}
