package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "recipeparse API base URL")
	runs   = flag.Int("runs", 3, "Number of runs per URL for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Recipe pages covering the extraction paths.
var testURLs = []struct {
	Label string
	URL   string
}{
	{"JSON-LD graph", "https://www.bbcgoodfood.com/recipes/easy-pancakes"},
	{"JSON-LD", "https://www.seriouseats.com/the-food-lab-best-chocolate-chip-cookie-recipe"},
	{"JSON-LD (WP)", "https://www.recipetineats.com/chicken-chow-mein/"},
	{"Microdata", "https://www.allrecipes.com/recipe/21014/good-old-fashioned-pancakes/"},
	{"Anti-bot", "https://www.taste.com.au/recipes/classic-pancakes/5a08b82a-2bd6-4f3b-a2a2-8f10b8f4a2c7"},
}

// recipeResponse mirrors the fields of the API record the benchmark inspects.
type recipeResponse struct {
	Name         string          `json:"name"`
	Ingredients  []string        `json:"ingredients"`
	Instructions json.RawMessage `json:"instructions"`
	Source       string          `json:"source"`
	Error        *errorDetail    `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run         int    `json:"run"`
	TotalMs     int64  `json:"total_ms"`
	StatusCode  int    `json:"status_code"`
	Source      string `json:"source,omitempty"`
	Ingredients int    `json:"ingredients"`
	Steps       int    `json:"steps"`
	HasName     bool   `json:"has_name"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type urlAverages struct {
	TotalMs     float64 `json:"total_ms"`
	Ingredients float64 `json:"ingredients"`
	Steps       float64 `json:"steps"`
}

type urlResult struct {
	URL      string       `json:"url"`
	Label    string       `json:"label"`
	Runs     []runResult  `json:"runs"`
	Averages *urlAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== recipeparse benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/URL:  %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure recipeparse is running (go run ./cmd/recipeparse)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerURL: *runs,
	}

	client := &http.Client{Timeout: 120 * time.Second}
	for _, t := range testURLs {
		fmt.Printf("Benchmarking [%s] %s ...\n", t.Label, t.URL)
		ur := urlResult{URL: t.URL, Label: t.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkURL(client, t.URL, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %s  %d ingredients, %d steps\n", rr.TotalMs, rr.Source, rr.Ingredients, rr.Steps)
			} else {
				fmt.Printf("FAILED (%d): %s\n", rr.StatusCode, rr.Error)
			}
			ur.Runs = append(ur.Runs, rr)
		}

		ur.Averages = computeAverages(ur.Runs)
		report.Results = append(report.Results, ur)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkURL(client *http.Client, pageURL string, run int) runResult {
	rr := runResult{Run: run}

	start := time.Now()
	resp, err := client.Get(*apiURL + "/extract?url=" + url.QueryEscape(pageURL))
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var body recipeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	rr.TotalMs = time.Since(start).Milliseconds()
	rr.StatusCode = resp.StatusCode

	if body.Error != nil {
		rr.Error = body.Error.Code + ": " + body.Error.Message
		return rr
	}

	rr.Success = resp.StatusCode == http.StatusOK
	rr.Source = body.Source
	rr.HasName = body.Name != ""
	rr.Ingredients = len(body.Ingredients)
	rr.Steps = countSteps(body.Instructions)
	return rr
}

// countSteps counts list instructions; a plain-text block counts as one.
func countSteps(raw json.RawMessage) int {
	var steps []string
	if err := json.Unmarshal(raw, &steps); err == nil {
		return len(steps)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && text != "" {
		return 1
	}
	return 0
}

func computeAverages(runs []runResult) *urlAverages {
	var successCount int
	var avg urlAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.Ingredients += float64(r.Ingredients)
		avg.Steps += float64(r.Steps)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.Ingredients /= n
	avg.Steps /= n
	return &avg
}

func printTable(results []urlResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\tAvg Latency\tSource\tIngredients\tSteps\n")
	fmt.Fprintf(w, "───\t───────────\t──────\t───────────\t─────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\t-\n", truncateURL(r.URL, 40))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%s\t%.1f\t%.1f\n",
			truncateURL(r.URL, 40),
			int64(r.Averages.TotalMs),
			dominantSource(r.Runs),
			r.Averages.Ingredients,
			r.Averages.Steps,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func dominantSource(runs []runResult) string {
	counts := map[string]int{}
	for _, r := range runs {
		if r.Success {
			counts[r.Source]++
		}
	}
	best, bestCount := "", 0
	for source, count := range counts {
		if count > bestCount || (count == bestCount && source < best) {
			best = source
			bestCount = count
		}
	}
	return best
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
