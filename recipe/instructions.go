package recipe

import (
	"github.com/use-agent/recipeparse/cleaner"
	"github.com/use-agent/recipeparse/models"
)

// ParseInstructions converts a raw recipeInstructions value into the
// Instructions variant.
//
//   - a string becomes PlainText with markup stripped;
//   - a list of strings or HowToStep objects becomes a StepList in order;
//   - HowToSection and other containers contribute their itemListElement
//     children, flattened, without the section heading;
//   - a single object is treated as a one-element list.
//
// Anything else, or a value with no usable text, yields an empty StepList.
func ParseInstructions(v any) models.Instructions {
	switch t := v.(type) {
	case string:
		if text := cleaner.StripTags(t); text != "" {
			return models.TextInstructions(text)
		}
		return models.StepInstructions(nil)
	case []any:
		return models.StepInstructions(flattenSteps(t, nil))
	case map[string]any:
		return models.StepInstructions(flattenSteps([]any{t}, nil))
	}
	return models.StepInstructions(nil)
}

func flattenSteps(items []any, out []string) []string {
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if s := cleaner.StripTags(t); s != "" {
				out = append(out, s)
			}
		case []any:
			out = flattenSteps(t, out)
		case map[string]any:
			out = flattenStep(t, out)
		}
	}
	return out
}

// flattenStep handles one object. A step's own text wins; its name is only
// used when it has no children, since a container's name is a heading.
func flattenStep(m map[string]any, out []string) []string {
	children, hasChildren := m["itemListElement"]
	if text := textOf(m["text"]); text != "" {
		out = append(out, text)
	} else if !hasChildren {
		if name := textOf(m["name"]); name != "" {
			out = append(out, name)
		}
	}
	if !hasChildren {
		return out
	}
	switch c := children.(type) {
	case []any:
		return flattenSteps(c, out)
	default:
		return flattenSteps([]any{c}, out)
	}
}
