package harvest

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/internal/domain"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var publishDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeArticle flattens an Infomedia article into the domain model. Markup in
// text fields is reduced to plain text with one line per block element.
func NormalizeArticle(a infomedia.Article) domain.Article {
	out := domain.Article{
		ID:          strings.TrimSpace(a.ArticleID),
		Source:      strings.TrimSpace(a.Source),
		Heading:     htmlText(a.Heading),
		SubHeading:  htmlText(a.SubHeading),
		Lead:        htmlText(a.Lead),
		Text:        htmlText(a.BodyText),
		Paragraph:   htmlText(a.Paragraph),
		Authors:     compact(a.Authors, strings.TrimSpace),
		Captions:    compact(a.Captions, htmlText),
		PageIDs:     compact(a.PageIDs, strings.TrimSpace),
		URL:         strings.TrimSpace(a.ArticleURL),
		WordCount:   a.WordCount,
		PublishedAt: parsePublishDate(a.PublishDate),
	}
	if a.Section != nil {
		out.Section = strings.TrimSpace(a.Section.Name)
	}
	return out
}

func parsePublishDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range publishDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return collapseLines(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseLines(s)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithNodes(newline())
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendNodes(newline())
	})
	return collapseLines(doc.Text())
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}

// collapseLines squeezes runs of whitespace inside each line and drops blank lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func compact(values []string, clean func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = clean(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
