package cleaner

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// MustCompile parses a CSS selector group at init time. It panics on a
// malformed selector, so it is only meant for package-level constants.
func MustCompile(selector string) cascadia.SelectorGroup {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		panic("cleaner: invalid selector " + selector + ": " + err.Error())
	}
	return sel
}

// MatchTexts returns the cleaned, non-empty text of every node under root
// matched by sel, in document order.
func MatchTexts(root *html.Node, sel cascadia.Matcher) []string {
	var out []string
	for _, n := range cascadia.QueryAll(root, sel) {
		if t := NodeText(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}
