package models

import (
	"encoding/json"
	"fmt"
)

// Extraction sources reported in RecipeRecord.Source.
const (
	SourceJSONLD    = "json-ld"
	SourceMicrodata = "microdata"
	SourceHeuristic = "heuristic"
)

// RecipeRecord is the normalized recipe returned by every successful extraction.
//
// Fields that were not discovered stay empty: Name is "", Ingredients is an
// empty slice and Instructions is an empty step list. The optional metadata
// fields are nil when unknown and encode as JSON null.
type RecipeRecord struct {
	Name         string       `json:"name" yaml:"name"`
	Ingredients  []string     `json:"ingredients" yaml:"ingredients"`
	Instructions Instructions `json:"instructions" yaml:"instructions"`

	Image       *string `json:"image" yaml:"image,omitempty"`
	PrepTime    *string `json:"prepTime" yaml:"prepTime,omitempty"`
	CookTime    *string `json:"cookTime" yaml:"cookTime,omitempty"`
	RecipeYield *string `json:"recipeYield" yaml:"recipeYield,omitempty"`

	// Source records which extraction path produced the record.
	Source string `json:"source" yaml:"source"`
}

// NewRecipeRecord returns an empty record with non-nil collections so that
// it always encodes as {"name":"","ingredients":[],"instructions":[]}.
func NewRecipeRecord(source string) *RecipeRecord {
	return &RecipeRecord{
		Ingredients:  []string{},
		Instructions: StepInstructions(nil),
		Source:       source,
	}
}

// HasBody reports whether the record carries ingredients or instructions.
// A record with only a name is not considered a usable structured result.
func (r *RecipeRecord) HasBody() bool {
	return len(r.Ingredients) > 0 || !r.Instructions.IsEmpty()
}

// InstructionsKind tags the active variant of Instructions.
type InstructionsKind int

const (
	// StepList is an ordered sequence of steps. It is the zero value, so an
	// unset Instructions is an empty step list.
	StepList InstructionsKind = iota
	// PlainText is a single free-text block.
	PlainText
)

func (k InstructionsKind) String() string {
	switch k {
	case PlainText:
		return "text"
	default:
		return "steps"
	}
}

// Instructions is a tagged variant: either one free-text block or an ordered
// list of steps. Raw markup is parsed into it once and it is projected to the
// wire representation (JSON string or JSON array) on encode.
type Instructions struct {
	Kind  InstructionsKind
	Text  string
	Steps []string
}

// TextInstructions builds the PlainText variant.
func TextInstructions(text string) Instructions {
	return Instructions{Kind: PlainText, Text: text}
}

// StepInstructions builds the StepList variant. A nil slice is stored as empty.
func StepInstructions(steps []string) Instructions {
	if steps == nil {
		steps = []string{}
	}
	return Instructions{Kind: StepList, Steps: steps}
}

// IsEmpty reports whether no instruction content is present.
func (in Instructions) IsEmpty() bool {
	if in.Kind == PlainText {
		return in.Text == ""
	}
	return len(in.Steps) == 0
}

// Lines returns the instructions as a list regardless of variant.
func (in Instructions) Lines() []string {
	if in.Kind == PlainText {
		if in.Text == "" {
			return []string{}
		}
		return []string{in.Text}
	}
	if in.Steps == nil {
		return []string{}
	}
	return in.Steps
}

// MarshalJSON encodes PlainText as a JSON string and StepList as an array.
func (in Instructions) MarshalJSON() ([]byte, error) {
	if in.Kind == PlainText {
		return json.Marshal(in.Text)
	}
	return json.Marshal(in.Lines())
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (in *Instructions) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*in = TextInstructions(text)
		return nil
	}
	var steps []string
	if err := json.Unmarshal(data, &steps); err != nil {
		return fmt.Errorf("instructions: expected string or list of strings: %w", err)
	}
	*in = StepInstructions(steps)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (in Instructions) MarshalYAML() (interface{}, error) {
	if in.Kind == PlainText {
		return in.Text, nil
	}
	return in.Lines(), nil
}
