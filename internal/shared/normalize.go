package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldForSearch lowercases, trims and strips diacritics so that searches match
// regardless of accents ("Pérez" matches "perez"). This is a presentation-layer
// helper only; the consistency engine compares its inputs verbatim.
func FoldForSearch(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

// FormatRUT renders a bare RUT digit string in the conventional dotted form
// with a dash before the check digit, e.g. "12345678K" -> "12.345.678-K".
// Strings that do not look like a RUT are returned unchanged.
func FormatRUT(rut string) string {
	clean := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(rut), ".", ""), "-", ""))
	if len(clean) < 2 {
		return rut
	}
	body := clean[:len(clean)-1]
	check := clean[len(clean)-1:]
	for _, r := range body {
		if r < '0' || r > '9' {
			return rut
		}
	}
	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte('-')
	b.WriteString(check)
	return b.String()
}
