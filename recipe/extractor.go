package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/recipeparse/engine"
	"github.com/use-agent/recipeparse/metrics"
	"github.com/use-agent/recipeparse/models"
	"github.com/use-agent/recipeparse/scraper"
)

// Fetcher retrieves a page. *scraper.Scraper implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*engine.FetchResult, error)
}

// Extractor turns a recipe page URL into a RecipeRecord. It holds no
// per-request state and is safe for concurrent use.
type Extractor struct {
	fetcher Fetcher
}

// NewExtractor creates an Extractor backed by f.
func NewExtractor(f Fetcher) *Extractor {
	return &Extractor{fetcher: f}
}

// Extract validates rawURL, fetches it and parses the page.
//
// The URL is validated before any network traffic; failures are INVALID_URL.
// Fetch failures are FETCH_FAILED or FETCH_TIMEOUT and return a nil record.
// Once a page is fetched a record is always returned, possibly empty.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*models.RecipeRecord, error) {
	u, err := scraper.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := e.fetcher.Fetch(ctx, u.String())
	if err != nil {
		var re *models.RecipeError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, models.NewRecipeError(models.ErrCodeFetchFailed, fmt.Sprintf("fetch failed: %v", err), err)
	}
	fetchDur := time.Since(start)

	pageURL := res.FinalURL
	if pageURL == "" {
		pageURL = u.String()
	}
	rec := Parse(res.HTML, pageURL)

	metrics.ObserveExtraction(rec.Source, !rec.HasBody())
	slog.Info("recipe extracted",
		"url", u.String(),
		"engine", res.EngineName,
		"source", rec.Source,
		"ingredients", len(rec.Ingredients),
		"steps", len(rec.Instructions.Lines()),
		"fetch_ms", fetchDur.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// Parse extracts a recipe from rawHTML. pageURL resolves relative image
// links and seeds readability; it may be empty. Parse is deterministic:
// the same input always yields the same record.
//
// Structured markup (JSON-LD, then microdata) is preferred. When it is
// absent or carries neither ingredients nor instructions, page heuristics
// take over and any structured name, image, times and yield fill the gaps.
func Parse(rawHTML string, pageURL string) *models.RecipeRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("html parse failed", "url", pageURL, "error", err)
		return models.NewRecipeRecord(models.SourceHeuristic)
	}
	base := baseURL(doc, pageURL)

	structured := structuredRecord(doc, base)

	rec := structured
	if rec == nil || !rec.HasBody() {
		rec = heuristicRecord(newPage(doc, pageURL), base)
		if structured != nil {
			fillFrom(rec, structured)
		}
	}

	if rec.CookTime == nil {
		rec.CookTime = optional(DeriveCookTime(rec.Instructions.Lines()))
	}
	return rec
}

// structuredRecord returns the first usable Recipe node, JSON-LD first.
func structuredRecord(doc *goquery.Document, base *url.URL) *models.RecipeRecord {
	for _, node := range jsonLDNodes(doc) {
		if rec := fromNode(node, models.SourceJSONLD, base); rec != nil {
			return rec
		}
	}
	for _, node := range microdataNodes(doc) {
		if rec := fromNode(node, models.SourceMicrodata, base); rec != nil {
			return rec
		}
	}
	return nil
}

// fillFrom copies fields the heuristic pass did not find.
func fillFrom(dst, src *models.RecipeRecord) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if dst.Image == nil {
		dst.Image = src.Image
	}
	if dst.PrepTime == nil {
		dst.PrepTime = src.PrepTime
	}
	if dst.CookTime == nil {
		dst.CookTime = src.CookTime
	}
	if dst.RecipeYield == nil {
		dst.RecipeYield = src.RecipeYield
	}
}

// baseURL honours a <base href> element, resolved against the page URL.
func baseURL(doc *goquery.Document, pageURL string) *url.URL {
	var pu *url.URL
	if pageURL != "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			pu = parsed
		}
	}
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return pu
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return pu
	}
	if pu == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return pu.ResolveReference(ref)
}
