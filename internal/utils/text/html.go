package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML renders an HTML fragment as plain text with runs of whitespace
// collapsed. Input without markup is returned with whitespace collapsed only.
// Feeds frequently put anchors and <font> tags inside descriptions.
func FromHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
