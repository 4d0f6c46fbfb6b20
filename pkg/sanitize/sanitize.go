// Package sanitize reduces user supplied free text to plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy = bluemonday.StrictPolicy()

	blockBreaks   = strings.NewReplacer("</p>", " ", "<br>", " ", "</div>", " ")
	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// Text strips all markup, including markup written as entities, and
// collapses whitespace. The result never contains angle brackets.
func Text(s string) string {
	s = blockBreaks.Replace(html.UnescapeString(s))

	clean := html.UnescapeString(policy.Sanitize(s))
	clean = angleBrackets.Replace(clean)
	return strings.Join(strings.Fields(clean), " ")
}
