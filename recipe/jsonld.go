package recipe

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// schemaPrefixes are stripped from @type values before comparison.
var schemaPrefixes = []string{
	"http://schema.org/",
	"https://schema.org/",
	"schema:",
}

// jsonLDNodes decodes every JSON-LD block in doc and returns the objects
// typed as Recipe, in document order. Malformed blocks are skipped.
func jsonLDNodes(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find(`script[type*="ld+json"]`).Each(func(i int, s *goquery.Selection) {
		v, ok := decodeJSONLD(s.Text())
		if !ok {
			slog.Debug("skipping malformed json-ld block", "index", i)
			return
		}
		collectRecipes(v, &out)
	})
	return out
}

// decodeJSONLD parses a script body. Blocks that fail strict decoding are
// retried once with comment wrappers, trailing semicolons and raw control
// characters removed; CMS templates commonly leave all three behind.
func decodeJSONLD(raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, true
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "<!--")
	cleaned = strings.TrimSuffix(cleaned, "-->")
	cleaned = strings.TrimPrefix(strings.TrimSpace(cleaned), "//<![CDATA[")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "//]]>")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), ";")
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, cleaned)

	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, false
	}
	return v, true
}

// collectRecipes walks arrays, @graph containers and WebPage mainEntity
// references looking for Recipe objects. It does not descend into a Recipe.
func collectRecipes(v any, out *[]map[string]any) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			collectRecipes(item, out)
		}
	case map[string]any:
		if isType(t["@type"], "Recipe") {
			*out = append(*out, t)
			return
		}
		if graph, ok := t["@graph"]; ok {
			collectRecipes(graph, out)
		}
		if entity, ok := t["mainEntity"]; ok {
			collectRecipes(entity, out)
		}
	}
}

// isType reports whether a @type value (string or list of strings) names
// want, ignoring case and any schema.org prefix.
func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		name := strings.TrimSpace(t)
		for _, p := range schemaPrefixes {
			if len(name) >= len(p) && strings.EqualFold(name[:len(p)], p) {
				name = name[len(p):]
				break
			}
		}
		return strings.EqualFold(name, want)
	case []any:
		for _, item := range t {
			if isType(item, want) {
				return true
			}
		}
	}
	return false
}
