package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/use-agent/recipeparse/models"
)

func sampleRecord() *models.RecipeRecord {
	yield := "2"
	rec := models.NewRecipeRecord(models.SourceJSONLD)
	rec.Name = "Omelette"
	rec.Ingredients = []string{"3 eggs", "knob of butter"}
	rec.Instructions = models.StepInstructions([]string{"Whisk the eggs.", "Cook in butter."})
	rec.RecipeYield = &yield
	return rec
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"json", "yaml", "markdown"} {
		if _, err := parseFormat(ok); err != nil {
			t.Errorf("parseFormat(%q) error: %v", ok, err)
		}
	}
	if _, err := parseFormat("xml"); err == nil {
		t.Error("parseFormat(xml) should fail")
	}
}

func TestRender(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := render(&buf, sampleRecord(), formatJSON, ""); err != nil {
			t.Fatal(err)
		}
		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got["name"] != "Omelette" || got["recipeYield"] != "2" {
			t.Errorf("json = %v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := render(&buf, sampleRecord(), formatYAML, ""); err != nil {
			t.Fatal(err)
		}
		var got struct {
			Name         string   `yaml:"name"`
			Instructions []string `yaml:"instructions"`
			PrepTime     *string  `yaml:"prepTime"`
		}
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid yaml: %v\n%s", err, buf.String())
		}
		if got.Name != "Omelette" || len(got.Instructions) != 2 {
			t.Errorf("yaml = %+v", got)
		}
		if got.PrepTime != nil {
			t.Errorf("unset prepTime should be omitted, got %q", *got.PrepTime)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		if err := render(&buf, sampleRecord(), formatMarkdown, ""); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "# Omelette") {
			t.Errorf("markdown = %s", buf.String())
		}
	})
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	out := filepath.Join(dir, "out.yaml")
	page := `<html><head><script type="application/ld+json">{"@type":"Recipe","name":"Flatbread","recipeIngredient":["flour","water"],"recipeInstructions":"Mix and cook."}</script></head></html>`
	if err := os.WriteFile(in, []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}

	args := []string{"recipectl", "parse", "--format", "yaml", "--output", out, in}
	if err := newApp().Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "name: Flatbread") || !strings.Contains(string(data), "instructions: Mix and cook.") {
		t.Errorf("unexpected output:\n%s", data)
	}
}

func TestExtractCommand_RequiresURL(t *testing.T) {
	err := newApp().Run(context.Background(), []string{"recipectl", "extract"})
	if err == nil || !strings.Contains(err.Error(), "missing <url>") {
		t.Errorf("err = %v, want missing url error", err)
	}
}
