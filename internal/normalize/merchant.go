package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Latin letters and digits, the Hebrew block, space, and a small
	// punctuation set. Everything else is dropped.
	disallowed = regexp.MustCompile(`[^A-Za-z0-9\x{0590}-\x{05FF} \-'&\./(),]`)

	// Literal \uXXXX artifacts that leak from model JSON serialization.
	unicodeEscape = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

	multiSpace = regexp.MustCompile(`\s+`)
)

// SanitizeMerchant cleans a merchant string scraped or extracted from a
// noisy source: NFKC normalization, HTML entity unescaping, decoding of
// leaked \uXXXX escapes, exotic-space replacement, character allow-list,
// whitespace collapse. Idempotent.
func SanitizeMerchant(s string) string {
	out := norm.NFKC.String(s)
	out = html.UnescapeString(out)
	out = unicodeEscape.ReplaceAllStringFunc(out, decodeEscape)

	// Non-breaking and figure-space variants become plain spaces so the
	// allow-list does not swallow word boundaries.
	out = strings.NewReplacer(
		" ", " ", // NBSP
		" ", " ", // narrow NBSP
		" ", " ", // figure space
	).Replace(out)

	out = disallowed.ReplaceAllString(out, "")
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func decodeEscape(esc string) string {
	n, err := strconv.ParseUint(esc[2:], 16, 32)
	if err != nil {
		return ""
	}
	r := rune(n)
	switch r {
	case ' ', ' ', ' ':
		return " "
	}
	return string(r)
}
