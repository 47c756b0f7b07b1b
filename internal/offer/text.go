package offer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips inline markup and entities the API sometimes embeds in
// product names and collapses whitespace.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
