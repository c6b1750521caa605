package recipe

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/recipeparse/cleaner"
	"github.com/use-agent/recipeparse/models"
	"github.com/use-agent/recipeparse/simhash"
)

var (
	ingredientHeadingRe = regexp.MustCompile(`(?i)\b(ingredients|ingredient list|you(?:’|'|)ll need|what you'll need|shopping list)\b`)
	stepHeadingRe       = regexp.MustCompile(`(?i)\b(method|steps?|instructions?|preparation|directions?|how to(?: make)?)\b`)
	numberedRe          = regexp.MustCompile(`^\d+[.)]\s+`)
	stepWordRe          = regexp.MustCompile(`(?i)\bstep\b`)
)

var (
	ingredientSel = cleaner.MustCompile("[class*=ingredient] li, .ingredients li, .recipe-ingredients li")
	stepSel       = cleaner.MustCompile("[class*=method] li, .method__item, .instructions li, .direction li, .directions li")
	listSel       = cleaner.MustCompile("ul, ol")
	ulSel         = cleaner.MustCompile("ul")
	paragraphSel  = cleaner.MustCompile("p")
)

const (
	// maxHeadingWords bounds how long a text may be to act as a section heading.
	maxHeadingWords = 6
	// listsAfterHeading is how many lists after a heading are inspected.
	listsAfterHeading = 2

	minListItemWords, maxListItemWords = 2, 25
	minListItems, maxListItems         = 4, 40
)

// headingSkip lists elements whose text never acts as a section heading.
var headingSkip = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {}, "title": {},
	"a": {}, "li": {}, "option": {}, "button": {},
}

// page is a parsed document plus the lazily computed readability view.
type page struct {
	doc   *goquery.Document
	root  *html.Node
	nodes []*html.Node // document order
	url   string

	mainDone bool
	main     *html.Node
	title    string
}

func newPage(doc *goquery.Document, pageURL string) *page {
	root := doc.Selection.Nodes[0]
	return &page{doc: doc, root: root, nodes: preorder(root), url: pageURL}
}

// mainContent returns the readability-isolated article, or the whole document
// when readability could not find one.
func (p *page) mainContent() *html.Node {
	if p.mainDone {
		return p.main
	}
	p.mainDone = true
	p.main = p.root

	var buf strings.Builder
	if err := html.Render(&buf, p.root); err != nil {
		return p.main
	}
	article, ok := cleaner.MainContent(buf.String(), p.url)
	p.title = cleaner.Text(article.Title)
	if !ok {
		return p.main
	}
	if n, err := html.Parse(strings.NewReader(article.Content)); err == nil {
		p.main = n
	}
	return p.main
}

// heuristicRecord builds a record from page text when no structured recipe
// markup is usable. Missing parts stay empty; this never fails.
func heuristicRecord(p *page, base *url.URL) *models.RecipeRecord {
	rec := models.NewRecipeRecord(models.SourceHeuristic)
	rec.Name = heuristicTitle(p)
	// Ingredients may repeat across sub-lists; only steps are deduplicated.
	rec.Ingredients = heuristicIngredients(p)
	rec.Instructions = models.StepInstructions(simhash.Dedupe(heuristicSteps(p), simhash.DefaultThreshold))

	if img := metaContent(p.doc, "og:image"); img != "" {
		rec.Image = ptr(resolveURL(base, img))
	}

	var body *html.Node
	if b := p.doc.Find("body"); b.Length() > 0 {
		body = b.Nodes[0]
	} else {
		body = p.root
	}
	l := scanLabels(cleaner.NodeText(body))
	rec.PrepTime = optional(l.prep)
	rec.CookTime = optional(l.cook)
	rec.RecipeYield = optional(l.yield)
	return rec
}

func heuristicTitle(p *page) string {
	for _, tag := range []string{"h1", "h2", "title"} {
		if t := cleaner.Text(p.doc.Find(tag).First().Text()); t != "" {
			return t
		}
	}
	if t := metaContent(p.doc, "og:title"); t != "" {
		return t
	}
	p.mainContent()
	return p.title
}

func heuristicIngredients(p *page) []string {
	if items := listAfterHeading(p.nodes, ingredientHeadingRe); len(items) > 0 {
		return items
	}
	if items := cleaner.MatchTexts(p.root, ingredientSel); len(items) > 0 {
		return items
	}
	return shortItemList(p.mainContent())
}

func heuristicSteps(p *page) []string {
	if items := listAfterHeading(p.nodes, stepHeadingRe); len(items) > 0 {
		return items
	}
	if items := cleaner.MatchTexts(p.root, stepSel); len(items) > 0 {
		return items
	}
	return numberedParagraphs(p.root)
}

// listAfterHeading finds short text nodes matching re and returns the items of
// the first non-empty list among the next listsAfterHeading lists that follow
// the heading element in document order. Text inside h1-h6 is tried before
// any other text, so "Preparation time" in a summary box does not shadow a
// real "Method" heading.
func listAfterHeading(nodes []*html.Node, re *regexp.Regexp) []string {
	for _, headingsOnly := range []bool{true, false} {
		for i, n := range nodes {
			if n.Type != html.TextNode || n.Parent == nil || skippedHeading(n) {
				continue
			}
			if headingsOnly != inHeading(n) {
				continue
			}
			text := cleaner.Text(n.Data)
			if text == "" || len(strings.Fields(text)) > maxHeadingWords || !re.MatchString(text) {
				continue
			}
			if items := listsAfter(nodes, i, n.Parent); len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

// listsAfter scans forward from the heading element (found at or before
// index i) for lists.
func listsAfter(nodes []*html.Node, i int, heading *html.Node) []string {
	start := i
	for start > 0 && nodes[start] != heading {
		start--
	}
	seen := 0
	for _, m := range nodes[start+1:] {
		if m.Type != html.ElementNode || !listSel.Match(m) {
			continue
		}
		if items := cleaner.MatchTexts(m, listItems); len(items) > 0 {
			return items
		}
		seen++
		if seen == listsAfterHeading {
			break
		}
	}
	return nil
}

func inHeading(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			return true
		}
	}
	return false
}

func skippedHeading(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if _, skip := headingSkip[p.Data]; skip {
			return true
		}
	}
	return false
}

// shortItemList returns the first <ul> whose short items look like an
// ingredient list.
func shortItemList(root *html.Node) []string {
	for _, ul := range cascadia.QueryAll(root, ulSel) {
		var items []string
		for _, item := range cleaner.MatchTexts(ul, listItems) {
			if n := len(strings.Fields(item)); n >= minListItemWords && n <= maxListItemWords {
				items = append(items, item)
			}
		}
		if len(items) >= minListItems && len(items) <= maxListItems {
			return items
		}
	}
	return nil
}

// numberedParagraphs collects paragraphs that read like steps: "1. Mix",
// "2) Bake", or longer text that mentions a step.
func numberedParagraphs(root *html.Node) []string {
	var out []string
	for _, text := range cleaner.MatchTexts(root, paragraphSel) {
		if numberedRe.MatchString(text) || (len(strings.Fields(text)) > 6 && stepWordRe.MatchString(text)) {
			out = append(out, text)
		}
	}
	return out
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"], meta[name="` + property + `"]`).First()
	v, _ := sel.Attr("content")
	return cleaner.Text(v)
}

func preorder(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		out = append(out, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
