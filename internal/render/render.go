// Package render converts record text between Markdown, HTML and plain text,
// and builds share links.
package render

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders Markdown source to an HTML fragment. Raw HTML in the source is omitted.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// PlainText flattens an HTML fragment to whitespace-normalized text
func PlainText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style").Remove()

	var parts []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, blockquote, pre, td").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.Join(strings.Fields(doc.Text()), " "), nil
	}
	return strings.Join(parts, "\n"), nil
}

// MarkdownText renders Markdown and flattens the result to plain text
func MarkdownText(source string) (string, error) {
	fragment, err := HTML(source)
	if err != nil {
		return "", err
	}
	return PlainText(fragment)
}

// Slug is the URL-safe anchor for a title
func Slug(title string) string {
	return slug.Make(title)
}

// CanonicalURL joins base and a detail path for a record
func CanonicalURL(base, detailPath, id string) string {
	return strings.TrimRight(base, "/") + detailPath + "/" + url.PathEscape(id)
}

// MailtoShare builds the prefilled email compose link used when no native
// share capability is available. The body carries the excerpt as plain text,
// a blank line, then the link after "Read more at: ".
func MailtoShare(subject, excerpt, link string) string {
	return "mailto:?subject=" + escape(subject) + "&body=" + escape(excerpt+"\n\nRead more at: "+link)
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BlogLink is the blog list URL anchored at the post's slug
func BlogLink(base, route, title string) string {
	return strings.TrimRight(base, "/") + route + "#" + Slug(title)
}
