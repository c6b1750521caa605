package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRecipeRecord_EncodesEmptyCollections(t *testing.T) {
	data, err := json.Marshal(NewRecipeRecord(SourceHeuristic))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`"name":""`,
		`"ingredients":[]`,
		`"instructions":[]`,
		`"image":null`,
		`"prepTime":null`,
		`"cookTime":null`,
		`"recipeYield":null`,
		`"source":"heuristic"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("encoded record %s missing %s", got, want)
		}
	}
}

func TestInstructions_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Instructions
		want string
	}{
		{"text", TextInstructions("Mix and bake."), `"Mix and bake."`},
		{"steps", StepInstructions([]string{"Mix.", "Bake."}), `["Mix.","Bake."]`},
		{"nil steps", StepInstructions(nil), `[]`},
		{"zero value", Instructions{}, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestInstructions_UnmarshalJSON(t *testing.T) {
	var text Instructions
	if err := json.Unmarshal([]byte(`"Stir well."`), &text); err != nil {
		t.Fatalf("Unmarshal string: %v", err)
	}
	if text.Kind != PlainText || text.Text != "Stir well." {
		t.Errorf("string decoded as %+v", text)
	}

	var steps Instructions
	if err := json.Unmarshal([]byte(`["a","b"]`), &steps); err != nil {
		t.Fatalf("Unmarshal list: %v", err)
	}
	if steps.Kind != StepList || len(steps.Steps) != 2 || steps.Steps[1] != "b" {
		t.Errorf("list decoded as %+v", steps)
	}

	var bad Instructions
	if err := json.Unmarshal([]byte(`{"text":"x"}`), &bad); err == nil {
		t.Error("expected error for object input")
	}
}

func TestInstructions_MarshalYAML(t *testing.T) {
	v, err := TextInstructions("Boil.").MarshalYAML()
	if err != nil || v != "Boil." {
		t.Errorf("text MarshalYAML = %v, %v", v, err)
	}
	v, err = StepInstructions([]string{"One", "Two"}).MarshalYAML()
	if err != nil {
		t.Fatalf("steps MarshalYAML: %v", err)
	}
	if lines, ok := v.([]string); !ok || len(lines) != 2 {
		t.Errorf("steps MarshalYAML = %#v", v)
	}
}

func TestInstructions_LinesAndIsEmpty(t *testing.T) {
	tests := []struct {
		name      string
		in        Instructions
		wantLines int
		wantEmpty bool
	}{
		{"empty text", TextInstructions(""), 0, true},
		{"text", TextInstructions("Serve."), 1, false},
		{"empty steps", StepInstructions(nil), 0, true},
		{"steps", StepInstructions([]string{"a", "b", "c"}), 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.in.Lines()); got != tt.wantLines {
				t.Errorf("len(Lines()) = %d, want %d", got, tt.wantLines)
			}
			if got := tt.in.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestRecipeRecord_HasBody(t *testing.T) {
	rec := NewRecipeRecord(SourceJSONLD)
	rec.Name = "Only a name"
	if rec.HasBody() {
		t.Error("name-only record should not have a body")
	}
	rec.Ingredients = []string{"1 egg"}
	if !rec.HasBody() {
		t.Error("record with ingredients should have a body")
	}
	rec = NewRecipeRecord(SourceJSONLD)
	rec.Instructions = TextInstructions("Fry the egg.")
	if !rec.HasBody() {
		t.Error("record with instructions should have a body")
	}
}
