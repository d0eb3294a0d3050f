// Package markup decides whether user-submitted text carries any visible
// content. The text itself is stored as typed.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize trims surrounding whitespace. Input with no visible text
// (whitespace, or markup such as "<p> </p>") becomes "" so that required
// field checks reject it.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if IsBlank(s) {
		return ""
	}
	return s
}

// IsBlank reports whether s has no visible text once markup is rendered.
func IsBlank(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	if !strings.ContainsAny(s, "<&") {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return false
	}

	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Find("body").Text()) == ""
}
