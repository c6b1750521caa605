package cleaner

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Text normalizes a scraped string: NFC composition, whitespace runs
// (including non-breaking spaces) collapsed to one space, ends trimmed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// StripTags removes markup from an HTML fragment and returns its cleaned
// text. Block boundaries become spaces so adjacent paragraphs do not merge.
// Plain strings without markup are returned cleaned.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return Text(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil {
		return Text(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return Text(b.String())
}

// NodeText returns the cleaned text content of n, skipping script and style.
func NodeText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return Text(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		case "br":
			b.WriteByte(' ')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode {
		if _, ok := inline[n.Data]; !ok {
			b.WriteByte(' ')
		}
	}
}

// inline elements do not separate words.
var inline = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "code": {}, "data": {}, "em": {}, "i": {},
	"label": {}, "mark": {}, "s": {}, "small": {}, "span": {}, "strong": {},
	"sub": {}, "sup": {}, "time": {}, "u": {},
}
