package cleaner

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/use-agent/recipeparse/models"
)

// mdConverter is goroutine-safe and shared by all callers.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// RecipeMarkdown renders a record as Markdown: title heading, optional image
// and a metadata line, an ingredient bullet list and numbered steps.
//
// The record is first laid out as HTML so escaping of user-controlled text is
// handled by the converter rather than by hand.
func RecipeMarkdown(rec *models.RecipeRecord, sourceURL string) (string, error) {
	return mdConverter.ConvertString(recipeHTML(rec), converter.WithDomain(sourceURL))
}

func recipeHTML(rec *models.RecipeRecord) string {
	var b strings.Builder
	esc := html.EscapeString

	name := rec.Name
	if name == "" {
		name = "Untitled recipe"
	}
	b.WriteString("<h1>" + esc(name) + "</h1>")

	if rec.Image != nil {
		b.WriteString(`<p><img src="` + esc(*rec.Image) + `" alt="` + esc(name) + `"></p>`)
	}

	var meta []string
	if rec.PrepTime != nil {
		meta = append(meta, "<strong>Prep:</strong> "+esc(*rec.PrepTime))
	}
	if rec.CookTime != nil {
		meta = append(meta, "<strong>Cook:</strong> "+esc(*rec.CookTime))
	}
	if rec.RecipeYield != nil {
		meta = append(meta, "<strong>Serves:</strong> "+esc(*rec.RecipeYield))
	}
	if len(meta) > 0 {
		b.WriteString("<p>" + strings.Join(meta, " · ") + "</p>")
	}

	if len(rec.Ingredients) > 0 {
		b.WriteString("<h2>Ingredients</h2><ul>")
		for _, ing := range rec.Ingredients {
			b.WriteString("<li>" + esc(ing) + "</li>")
		}
		b.WriteString("</ul>")
	}

	if !rec.Instructions.IsEmpty() {
		b.WriteString("<h2>Instructions</h2>")
		if rec.Instructions.Kind == models.PlainText {
			b.WriteString("<p>" + esc(rec.Instructions.Text) + "</p>")
		} else {
			b.WriteString("<ol>")
			for _, step := range rec.Instructions.Steps {
				b.WriteString("<li>" + esc(step) + "</li>")
			}
			b.WriteString("</ol>")
		}
	}
	return b.String()
}
