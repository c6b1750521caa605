package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/recipeparse/cleaner"
	"github.com/use-agent/recipeparse/config"
	"github.com/use-agent/recipeparse/models"
	"github.com/use-agent/recipeparse/recipe"
	"github.com/use-agent/recipeparse/scraper"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Value:   formatJSON,
	Usage:   "Output format (json, yaml, markdown)",
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Write the result to this file instead of stdout",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "recipectl",
		Usage: "Extract structured recipes from web pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var level slog.Level
			if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
				return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			extractCmd(),
			parseCmd(),
		},
	}
}

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Fetch a recipe page and print the extracted recipe",
		ArgsUsage: "<url>",
		Description: `Fetches the page with the same engine chain as the server (plain HTTP,
then the headless browser and scraping proxy when configured through the
environment) and prints the recipe.`,
		Flags: []cli.Flag{
			formatFlag,
			outputFlag,
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-fetch timeout (default from RECIPE_FETCH_TIMEOUT)",
			},
			&cli.BoolFlag{
				Name:  "browser",
				Usage: "Add the headless browser to the engine chain",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			rawURL := cmd.Args().First()
			if rawURL == "" {
				return fmt.Errorf("missing <url> argument")
			}

			cfg := config.Load()
			if d := cmd.Duration("timeout"); d > 0 {
				cfg.Fetch.Timeout = d
			}
			if cmd.Bool("browser") {
				cfg.Browser.Enabled = true
			}

			sc := scraper.New(cfg)
			defer sc.Close()

			rec, err := recipe.NewExtractor(sc).Extract(ctx, rawURL)
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("output"), rec, format, rawURL)
		},
	}
}

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Extract a recipe from a saved HTML file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			formatFlag,
			outputFlag,
			&cli.StringFlag{
				Name:  "url",
				Usage: "Original page URL, used to resolve relative links",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("missing <file> argument")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}
			rec := recipe.Parse(string(data), cmd.String("url"))
			return writeOutput(cmd.String("output"), rec, format, cmd.String("url"))
		},
	}
}

func parseFormat(s string) (string, error) {
	switch s {
	case formatJSON, formatYAML, formatMarkdown:
		return s, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", s)
	}
}

func writeOutput(path string, rec *models.RecipeRecord, format, sourceURL string) error {
	if path == "" {
		return render(os.Stdout, rec, format, sourceURL)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	if err := render(f, rec, format, sourceURL); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// render writes rec to w in the requested format.
func render(w io.Writer, rec *models.RecipeRecord, format, sourceURL string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatMarkdown:
		md, err := cleaner.RecipeMarkdown(rec, sourceURL)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = fmt.Fprintln(w, md)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
}
