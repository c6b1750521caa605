package recipe

import (
	"net/url"
	"strconv"

	"github.com/use-agent/recipeparse/cleaner"
	"github.com/use-agent/recipeparse/models"
)

// fromNode maps a Recipe object (decoded JSON-LD or converted microdata) to a
// record. It returns nil when the node has no name, ingredients or
// instructions.
func fromNode(node map[string]any, source string, base *url.URL) *models.RecipeRecord {
	rec := models.NewRecipeRecord(source)
	rec.Name = textOf(node["name"])

	ingredients := node["recipeIngredient"]
	if ingredients == nil {
		ingredients = node["ingredients"]
	}
	rec.Ingredients = stringList(ingredients)
	rec.Instructions = ParseInstructions(node["recipeInstructions"])

	if rec.Name == "" && !rec.HasBody() {
		return nil
	}

	if img := pickImage(node["image"]); img != "" {
		rec.Image = ptr(resolveURL(base, img))
	}
	rec.PrepTime = optional(FormatDuration(textOf(node["prepTime"])))
	cook := FormatDuration(textOf(node["cookTime"]))
	if cook == "" {
		cook = FormatDuration(textOf(node["totalTime"]))
	}
	rec.CookTime = optional(cook)
	rec.RecipeYield = optional(NormalizeYield(node["recipeYield"]))
	return rec
}

// textOf reads a scalar text value. Lists yield their first non-empty entry;
// objects their @value, name or text.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return cleaner.StripTags(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		for _, item := range t {
			if s := textOf(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"@value", "name", "text"} {
			if s := textOf(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList reads a list-of-text value. A single string is a one-element
// list. Empty entries are dropped; order is preserved.
func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := textOf(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := textOf(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ptr(s string) *string { return &s }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
