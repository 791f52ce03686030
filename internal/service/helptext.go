package service

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags lists the HTML elements permitted in field help text.
var AllowedTags = []string{
	"a", "b", "big", "code", "del", "em", "i", "ins", "pre", "q", "small",
	"span", "strong", "sub", "sup", "tt", "ol", "ul", "li", "p", "br", "img",
}

// TokenNotice tells editors that help text may contain tokens.
const TokenNotice = "These fields support tokens."

// AllowedTagsNotice returns "Allowed HTML tags: <a> <b> ..." for display
// next to help text inputs.
func AllowedTagsNotice() string {
	var b strings.Builder
	b.WriteString("Allowed HTML tags:")
	for _, tag := range AllowedTags {
		b.WriteString(" <")
		b.WriteString(tag)
		b.WriteString(">")
	}
	return b.String()
}

// Sanitizer filters help text down to AllowedTags before it is shown as
// markup.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the help text policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowStandardURLs()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.RequireNoFollowOnLinks(false)
	return &Sanitizer{policy: p}
}

// Sanitize returns text with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(text string) template.HTML {
	return template.HTML(s.policy.Sanitize(text)) //nolint:gosec // output of the allow-list policy
}
