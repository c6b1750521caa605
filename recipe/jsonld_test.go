package recipe

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestIsType(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"plain", "Recipe", true},
		{"lowercase", "recipe", true},
		{"schema prefix", "schema:Recipe", true},
		{"http prefix", "http://schema.org/Recipe", true},
		{"https prefix", "https://schema.org/Recipe", true},
		{"list", []any{"NewsArticle", "Recipe"}, true},
		{"other", "Article", false},
		{"nil", nil, false},
		{"substring", "RecipeCollection", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isType(tt.v, "Recipe"); got != tt.want {
				t.Errorf("isType(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONLD(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"valid", `{"@type":"Recipe"}`, true},
		{"empty", "   ", false},
		{"raw newline in string", "{\"name\":\"Good\nSoup\"}", true},
		{"comment wrapped", `<!-- {"@type":"Recipe"} -->`, true},
		{"trailing semicolon", `{"@type":"Recipe"};`, true},
		{"truncated", `{"@type":"Recipe","name":"Bad"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeJSONLD(tt.raw)
			if ok != tt.wantOK {
				t.Errorf("decodeJSONLD ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestJSONLDNodes(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":"Recipe","name":"Broken"</script>
<script type="application/ld+json">[{"@type":"Organization","name":"Site"},{"@type":"Recipe","name":"Array"}]</script>
<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"WebPage"},{"@type":["Recipe"],"name":"Graph"}]}</script>
<script type="application/ld+json">{"@type":"WebPage","mainEntity":{"@type":"Recipe","name":"Entity"}}</script>
<script type="text/javascript">var x = {"@type":"Recipe","name":"Script"};</script>
</head><body></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	nodes := jsonLDNodes(doc)
	want := []string{"Array", "Graph", "Entity"}
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d: %v", len(nodes), len(want), nodes)
	}
	for i, name := range want {
		if nodes[i]["name"] != name {
			t.Errorf("node[%d].name = %v, want %q", i, nodes[i]["name"], name)
		}
	}
}
