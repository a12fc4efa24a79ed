package textutil

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// matches a tag, its content and the closing tag, like `<h3>Cost</h3>` or
// `<span class="ruby">..</span>`
var annotationRegex = regexp.MustCompile(`<[^>]*>.*?</[^>]*>`)

// StripAnnotations removes tag delimited runs out of an inner html fragment
// and trims the result. Lone tags like <br> are kept.
func StripAnnotations(fragment string) string {
	return strings.TrimSpace(annotationRegex.ReplaceAllString(fragment, ""))
}

// NormalizeWidth collapses width variants (full-width digits, letters and
// punctuation) into their ASCII equivalents.
func NormalizeWidth(s string) string {
	return norm.NFKC.String(s)
}

// PlainText strips annotations and decodes html entities, lone tags are kept.
func PlainText(fragment string) string {
	return html.UnescapeString(StripAnnotations(fragment))
}

var separatorReplacer = strings.NewReplacer(",", "", " ", "")

// Normalize produces the canonical string every numeric, color and attribute
// decoder works on.
func Normalize(fragment string) string {
	s := PlainText(fragment)
	s = NormalizeWidth(s)
	s = separatorReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// Digits keeps the ASCII digits of s only.
func Digits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

var unsetSentinels = []string{"-", "–", "—", "ー"}

// IsUnsetSentinel reports whether a normalized value means "intentionally
// absent".
func IsUnsetSentinel(s string) bool {
	for _, sentinel := range unsetSentinels {
		if s == sentinel {
			return true
		}
	}
	return false
}
