package recipe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/recipeparse/cleaner"
)

var listItems = cleaner.MustCompile("li")

// microdataNodes converts every top-level schema.org/Recipe microdata item in
// doc into the same map shape JSON-LD decodes to, so both feed one mapper.
func microdataNodes(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find("[itemscope][itemtype]").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		if !isRecipeItem(n) || insideRecipeItem(n) {
			return
		}
		out = append(out, microdataItem(n))
	})
	return out
}

func isRecipeItem(n *html.Node) bool {
	for _, t := range strings.Fields(attr(n, "itemtype")) {
		if strings.HasSuffix(strings.ToLower(t), "/recipe") {
			return true
		}
	}
	return false
}

func insideRecipeItem(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hasAttr(p, "itemscope") && isRecipeItem(p) {
			return true
		}
	}
	return false
}

// microdataItem collects the itemprops that belong to the item rooted at n.
// Properties of nested items are attached to the nested item only.
func microdataItem(n *html.Node) map[string]any {
	item := map[string]any{"@type": itemTypeName(n)}

	var walk func(*html.Node)
	walk = func(parent *html.Node) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			scoped := hasAttr(c, "itemscope")
			if props := attr(c, "itemprop"); props != "" {
				for _, name := range strings.Fields(props) {
					var v any
					if scoped {
						v = microdataItem(c)
					} else {
						v = propValue(c, name)
					}
					addProp(item, name, v)
				}
			}
			if !scoped {
				walk(c)
			}
		}
	}
	walk(n)
	return item
}

// propValue reads an itemprop value following the microdata rules for each
// element kind. An instructions container with list items yields its items.
func propValue(n *html.Node, name string) any {
	switch n.Data {
	case "meta":
		return attr(n, "content")
	case "img", "audio", "video", "source", "embed", "iframe", "track":
		return attr(n, "src")
	case "a", "link", "area":
		return attr(n, "href")
	case "object":
		return attr(n, "data")
	case "time":
		if dt := attr(n, "datetime"); dt != "" {
			return dt
		}
	case "data", "meter":
		if v := attr(n, "value"); v != "" {
			return v
		}
	}
	if name == "recipeInstructions" {
		if items := cleaner.MatchTexts(n, listItems); len(items) > 0 {
			steps := make([]any, len(items))
			for i, s := range items {
				steps[i] = s
			}
			return steps
		}
	}
	if c := attr(n, "content"); c != "" {
		return c
	}
	return cleaner.NodeText(n)
}

// addProp appends repeated properties into a list, mirroring how JSON-LD
// represents multi-valued fields.
func addProp(item map[string]any, name string, v any) {
	existing, ok := item[name]
	if !ok {
		item[name] = v
		return
	}
	list, isList := existing.([]any)
	if !isList {
		list = []any{existing}
	}
	if vs, ok := v.([]any); ok {
		item[name] = append(list, vs...)
		return
	}
	item[name] = append(list, v)
}

func itemTypeName(n *html.Node) string {
	fields := strings.Fields(attr(n, "itemtype"))
	if len(fields) == 0 {
		return ""
	}
	t := fields[0]
	if i := strings.LastIndexByte(t, '/'); i >= 0 {
		t = t[i+1:]
	}
	return t
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
