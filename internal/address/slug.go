// Package address implements address normalization for the building catalog:
// the canonical slug derived from (postal code, street, house number) and the
// parser that splits a free-text address into street and house number.
//
// Slugs are the primary lookup key for buildings, so Slug must be a pure,
// total function: identical inputs always yield the identical slug, and no
// input (blank, "NaN" artifacts from upstream exports, punctuation, umlauts)
// ever causes an error.
package address

import (
	"regexp"
	"strings"
)

// umlauts expands the German umlauts and sharp-s to their two-letter ASCII
// forms before the slug is reduced to [a-z0-9-].
var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds the canonical address slug from postal code, street, and house
// number, in that order.
//
// Each part is lowercased, umlauts are expanded (ä→ae, ö→oe, ü→ue, ß→ss),
// every run of non-alphanumeric characters collapses to a single hyphen, and
// leading/trailing hyphens are trimmed. A part that is blank or a "NaN"
// artifact falls back to its placeholder: "0" for postal code and house
// number, "unknown" for the street. The three parts are joined with hyphens.
//
// Example: Slug("10317", "Landsberger Allee", "36") == "10317-landsberger-allee-36".
func Slug(postalCode, street, houseNum string) string {
	parts := []string{
		fallback(normalizePart(postalCode), "0"),
		fallback(normalizePart(street), "unknown"),
		fallback(normalizePart(houseNum), "0"),
	}
	return strings.Join(parts, "-")
}

// normalizePart lowercases, expands umlauts, and reduces a raw value to a
// hyphen-delimited token. It returns "" for blank or NaN-like input.
func normalizePart(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" || s == "nan" {
		return ""
	}
	s = umlauts.Replace(s)
	s = nonAlnumRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
