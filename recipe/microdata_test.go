package recipe

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const microdataPage = `<html><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h1 itemprop="name">Banana Bread</h1>
  <img itemprop="image" src="banana.jpg">
  <meta itemprop="prepTime" content="PT15M">
  <time itemprop="cookTime" datetime="PT1H">1 hour</time>
  <span itemprop="recipeYield">1 loaf</span>
  <ul>
    <li itemprop="recipeIngredient">3 bananas</li>
    <li itemprop="recipeIngredient">2 cups flour</li>
  </ul>
  <div itemprop="recipeInstructions"><ol><li>Mash bananas.</li><li>Mix and bake.</li></ol></div>
  <div itemprop="author" itemscope itemtype="https://schema.org/Person"><span itemprop="name">Ann</span></div>
</div>
</body></html>`

func TestMicrodataNodes(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(microdataPage))
	if err != nil {
		t.Fatal(err)
	}
	nodes := microdataNodes(doc)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	n := nodes[0]

	if n["@type"] != "Recipe" {
		t.Errorf("@type = %v, want Recipe", n["@type"])
	}
	if n["name"] != "Banana Bread" {
		t.Errorf("name = %v, want Banana Bread (nested author must not leak)", n["name"])
	}
	if n["image"] != "banana.jpg" {
		t.Errorf("image = %v", n["image"])
	}
	if n["prepTime"] != "PT15M" || n["cookTime"] != "PT1H" {
		t.Errorf("times = %v / %v", n["prepTime"], n["cookTime"])
	}

	ingredients, ok := n["recipeIngredient"].([]any)
	if !ok || len(ingredients) != 2 || ingredients[1] != "2 cups flour" {
		t.Errorf("recipeIngredient = %#v", n["recipeIngredient"])
	}
	steps, ok := n["recipeInstructions"].([]any)
	if !ok || len(steps) != 2 || steps[0] != "Mash bananas." {
		t.Errorf("recipeInstructions = %#v", n["recipeInstructions"])
	}

	author, ok := n["author"].(map[string]any)
	if !ok || author["name"] != "Ann" || author["@type"] != "Person" {
		t.Errorf("author = %#v", n["author"])
	}
}

func TestMicrodataNodes_IgnoresOtherItems(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div itemscope itemtype="https://schema.org/Article"><span itemprop="name">News</span></div>`))
	if err != nil {
		t.Fatal(err)
	}
	if nodes := microdataNodes(doc); len(nodes) != 0 {
		t.Errorf("got %d nodes, want 0", len(nodes))
	}
}
