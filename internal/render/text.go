package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText returns the readable text of a description that may contain HTML.
// Descriptions without markup are returned with their lines trimmed.
func PlainText(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return cleanLines(s), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	// block elements end a line
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("• ")
	})

	return cleanLines(doc.Text()), nil
}

func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
