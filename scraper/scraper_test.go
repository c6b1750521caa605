package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/recipeparse/config"
	"github.com/use-agent/recipeparse/engine"
	"github.com/use-agent/recipeparse/models"
)

func newTestScraper(timeout time.Duration) *Scraper {
	return NewWithDispatcher(engine.NewDispatcher(engine.NewHTTPEngine(config.FetchConfig{
		Timeout:      timeout,
		MaxBodyBytes: 1 << 20,
		UserAgent:    config.DefaultUserAgent,
	})))
}

func TestScraper_FetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>Soup</title></head><body>hi</body></html>"))
	}))
	defer srv.Close()

	res, err := newTestScraper(5*time.Second).Fetch(context.Background(), srv.URL+"/soup")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(res.HTML, "hi") {
		t.Errorf("HTML = %q", res.HTML)
	}
	if res.FinalURL != srv.URL+"/soup" {
		t.Errorf("FinalURL = %q", res.FinalURL)
	}
	if res.EngineName != "http" {
		t.Errorf("EngineName = %q, want http", res.EngineName)
	}
}

func TestScraper_InvalidURLMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := newTestScraper(5*time.Second).Fetch(context.Background(), "not a url")
	if !models.IsInvalidURL(err) {
		t.Fatalf("err = %v, want INVALID_URL", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestScraper_NotFoundIsFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res, err := newTestScraper(5*time.Second).Fetch(context.Background(), srv.URL)
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	var re *models.RecipeError
	if !errors.As(err, &re) || re.Code != models.ErrCodeFetchFailed {
		t.Fatalf("err = %v, want FETCH_FAILED", err)
	}
	var se *engine.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("wrapped error = %v, want StatusError 404", err)
	}
}

func TestScraper_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestScraper(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	var re *models.RecipeError
	if !errors.As(err, &re) || re.Code != models.ErrCodeFetchTimeout {
		t.Fatalf("err = %v, want FETCH_TIMEOUT", err)
	}
}

func TestScraper_EnginesWithoutOptionalEngines(t *testing.T) {
	cfg := &config.Config{Fetch: config.FetchConfig{Timeout: time.Second}}
	s := New(cfg)
	defer s.Close()

	got := s.Engines()
	if len(got) != 1 || got[0] != "http" {
		t.Errorf("Engines() = %v, want [http]", got)
	}
}
