package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/recipeparse/config"
	"github.com/use-agent/recipeparse/engine"
	"github.com/use-agent/recipeparse/models"
)

// Scraper validates URLs and fetches them through the engine chain. It owns
// the optional browser and must be closed.
type Scraper struct {
	dispatcher *engine.Dispatcher
	browser    *Browser
}

// New builds the engine chain from cfg: plain HTTP first, then the headless
// browser when enabled, then the scraping proxy when an API key is set.
// A browser that fails to launch is logged and left out of the chain.
func New(cfg *config.Config) *Scraper {
	s := &Scraper{}

	var browserEngine engine.Engine
	if cfg.Browser.Enabled {
		b, err := NewBrowser(cfg.Browser, cfg.Fetch.UserAgent)
		if err != nil {
			slog.Warn("browser engine disabled", "error", err)
		} else {
			s.browser = b
			browserEngine = engine.NewRodEngine(b.Browse)
		}
	}

	s.dispatcher = engine.NewDispatcher(
		engine.NewHTTPEngine(cfg.Fetch),
		browserEngine,
		engine.NewProxyEngine(cfg.Proxy, cfg.Fetch.UserAgent),
	)
	return s
}

// NewWithDispatcher wraps an existing dispatcher. Used by tests and by
// callers that assemble their own engine chain.
func NewWithDispatcher(d *engine.Dispatcher) *Scraper {
	return &Scraper{dispatcher: d}
}

// Fetch validates rawURL and returns the page. Errors are *models.RecipeError:
// INVALID_URL before any network traffic, FETCH_TIMEOUT when the deadline
// expired, FETCH_FAILED otherwise.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*engine.FetchResult, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	result, err := s.dispatcher.Dispatch(ctx, &engine.FetchRequest{URL: u.String()})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewRecipeError(models.ErrCodeFetchTimeout,
				fmt.Sprintf("timed out fetching %s", u), err)
		}
		return nil, models.NewRecipeError(models.ErrCodeFetchFailed,
			fmt.Sprintf("fetch failed: %v", err), err)
	}
	if result.URL == "" {
		result.URL = u.String()
	}
	if result.FinalURL == "" {
		result.FinalURL = result.URL
	}
	return result, nil
}

// Engines returns the configured engine names in escalation order.
func (s *Scraper) Engines() []string {
	return s.dispatcher.Engines()
}

// Close releases the browser, if one was launched.
func (s *Scraper) Close() {
	if s.browser != nil {
		s.browser.Close()
	}
}
