package view

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// sanitizer keeps basic formatting tags, everything else (scripts, styles,
// event handlers) is stripped before rendering
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "a", "li", "ul", "ol", "blockquote")
	return p
}()

// PlainText flattens an HTML fragment into single-line plain text suitable
// for a terminal
func PlainText(fragment string) string {
	if fragment == "" {
		return ""
	}

	sanitized := sanitizer.Sanitize(fragment)
	root, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return strings.TrimSpace(sanitized)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "br" || n.Data == "li") {
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(strings.Fields(sb.String()), " ")
}
