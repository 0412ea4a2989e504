package preview

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nhle/edgeinbox/internal/message"
)

// blockTags end a line when rendered as terminal text.
const blockTags = "p, div, tr, li, h1, h2, h3, h4, h5, h6, table, blockquote, pre"

var blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

// HTMLToText renders a sanitized HTML fragment as terminal text. Line
// breaks and block elements become newlines, script and style content is
// dropped, and entities are decoded. The result is display safe.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return tidy(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return tidy(fragment)
	}

	doc.Find("script, style, head, title").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return tidy(doc.Text())
}

// Inline renders a short HTML-escaped field, such as a sender, on one line.
func Inline(field string) string {
	text := HTMLToText(field)
	return strings.Join(strings.Fields(text), " ")
}

func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = message.DisplaySafe(s)
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
