package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/recipeparse/config"
	"github.com/use-agent/recipeparse/engine"
	"github.com/use-agent/recipeparse/models"
	"github.com/use-agent/recipeparse/recipe"
	"github.com/use-agent/recipeparse/scraper"
)

const soupPage = `<html><head><script type="application/ld+json">
{"@type":"Recipe","name":"Soup","recipeIngredient":["water","salt"],
 "recipeInstructions":[{"@type":"HowToStep","text":"Boil."},{"@type":"HowToStep","text":"Season."}]}
</script></head><body></body></html>`

type stubFetcher struct {
	html  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (*engine.FetchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &engine.FetchResult{HTML: s.html, URL: rawURL, FinalURL: rawURL, EngineName: "stub"}, nil
}

func newTestRouter(f *stubFetcher) http.Handler {
	cfg := &config.Config{Server: config.ServerConfig{Mode: "test"}}
	return NewRouter(recipe.NewExtractor(f), []string{"http", "proxy"}, cfg, time.Now())
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_ParseAndExtract(t *testing.T) {
	h := newTestRouter(&stubFetcher{html: soupPage})

	for _, path := range []string{"/parse", "/extract"} {
		t.Run(path, func(t *testing.T) {
			w := get(h, path+"?url=https://example.com/soup")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["name"] != "Soup" {
				t.Errorf("name = %v", body["name"])
			}
			steps, ok := body["instructions"].([]any)
			if !ok || len(steps) != 2 || steps[0] != "Boil." {
				t.Errorf("instructions = %v", body["instructions"])
			}
		})
	}
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		fetchErr   error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "missing url",
			target:     "/parse",
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrCodeInvalidURL,
		},
		{
			name:       "malformed url",
			target:     "/parse?url=not%20a%20url",
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrCodeInvalidURL,
		},
		{
			name:       "upstream 404",
			target:     "/parse?url=https://example.com/missing",
			fetchErr:   models.NewRecipeError(models.ErrCodeFetchFailed, "fetch failed: HTTP 404", nil),
			wantStatus: http.StatusBadGateway,
			wantCode:   models.ErrCodeFetchFailed,
			wantCalls:  1,
		},
		{
			name:       "timeout",
			target:     "/extract?url=https://example.com/slow",
			fetchErr:   models.NewRecipeError(models.ErrCodeFetchTimeout, "timed out", context.DeadlineExceeded),
			wantStatus: http.StatusBadGateway,
			wantCode:   models.ErrCodeFetchTimeout,
			wantCalls:  1,
		},
		{
			name:       "untyped fetch error",
			target:     "/extract?url=https://example.com/reset",
			fetchErr:   errors.New("connection reset"),
			wantStatus: http.StatusBadGateway,
			wantCode:   models.ErrCodeFetchFailed,
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{html: soupPage, err: tt.fetchErr}
			w := get(newTestRouter(f), tt.target)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v (body %s)", err, w.Body.String())
			}
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", body.Error, tt.wantCode)
			}
			if f.calls != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", f.calls, tt.wantCalls)
			}
		})
	}
}

func TestRouter_Markdown(t *testing.T) {
	w := get(newTestRouter(&stubFetcher{html: soupPage}), "/extract?url=https://example.com/soup&format=markdown")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, "# Soup") || !strings.Contains(body, "1. Boil.") {
		t.Errorf("unexpected markdown:\n%s", body)
	}
}

func TestRouter_Health(t *testing.T) {
	w := get(newTestRouter(&stubFetcher{}), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || len(body.Engines) != 2 || body.Engines[0] != "http" {
		t.Errorf("health = %+v", body)
	}
}

func TestRouter_RequestID(t *testing.T) {
	h := newTestRouter(&stubFetcher{})

	generated := get(h, "/health").Header().Get("X-Request-Id")
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("generated id %q is not a uuid", generated)
	}

	incoming := uuid.New().String()
	if got := get(h, "/health", "X-Request-Id", incoming).Header().Get("X-Request-Id"); got != incoming {
		t.Errorf("X-Request-Id = %q, want echoed %q", got, incoming)
	}

	if got := get(h, "/health", "X-Request-Id", "<script>").Header().Get("X-Request-Id"); got == "<script>" {
		t.Error("invalid incoming id should be replaced")
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(&stubFetcher{html: soupPage})
	get(h, "/parse?url=https://example.com/soup")

	w := get(h, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"recipeparse_http_requests_total", "recipeparse_extractions_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestRouter_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode string
	}{
		{
			name: "hangs past the fetch timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			wantCode: models.ErrCodeFetchTimeout,
		},
		{
			name: "redirect without location",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusFound)
				_, _ = w.Write([]byte("<h1>Moved</h1>"))
			},
			wantCode: models.ErrCodeFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			httpEngine := engine.NewHTTPEngine(config.FetchConfig{Timeout: 50 * time.Millisecond})
			sc := scraper.NewWithDispatcher(engine.NewDispatcher(httpEngine))
			cfg := &config.Config{Server: config.ServerConfig{Mode: "test"}}
			h := NewRouter(recipe.NewExtractor(sc), sc.Engines(), cfg, time.Now())

			w := get(h, "/extract?url="+url.QueryEscape(srv.URL+"/soup"))
			if w.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502; body = %s", w.Code, w.Body.String())
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", body.Error, tt.wantCode)
			}
		})
	}
}
