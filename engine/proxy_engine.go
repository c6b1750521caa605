package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/use-agent/recipeparse/config"
)

// ProxyEngine fetches through a ScraperAPI-compatible scraping proxy. It is
// the last resort for sites that block both plain HTTP and the browser.
type ProxyEngine struct {
	client    *http.Client
	cfg       config.ProxyConfig
	userAgent string
}

// NewProxyEngine returns nil when no API key is configured.
func NewProxyEngine(cfg config.ProxyConfig, userAgent string) *ProxyEngine {
	if cfg.APIKey == "" {
		return nil
	}
	return &ProxyEngine{
		client:    &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
		userAgent: userAgent,
	}
}

func (e *ProxyEngine) Name() string { return "proxy" }

func (e *ProxyEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	endpoint, err := url.Parse(e.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("proxy_engine: parse endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("api_key", e.cfg.APIKey)
	q.Set("url", req.URL)
	q.Set("keep_headers", "true")
	if e.cfg.Country != "" {
		q.Set("country_code", e.cfg.Country)
	}
	endpoint.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("proxy_engine: build request: %w", err)
	}
	setBrowserHeaders(httpReq.Header, e.userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		// Never leak the API key through the wrapped *url.Error.
		return nil, fmt.Errorf("proxy_engine: request failed for %s: %w", req.URL, unwrapURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("proxy_engine: read body: %w", err)
	}

	if !successStatus(resp.StatusCode) {
		return nil, &StatusError{
			Engine:     e.Name(),
			StatusCode: resp.StatusCode,
			URL:        req.URL,
			Snippet:    snippet(body, 300),
		}
	}

	text := decodeBody(body, resp.Header.Get("Content-Type"))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("proxy_engine: HTTP %d for %s: %w", resp.StatusCode, req.URL, ErrEmptyBody)
	}

	// The proxy hides redirects, so relative links resolve against the
	// requested URL.
	return &FetchResult{
		HTML:       text,
		URL:        req.URL,
		FinalURL:   req.URL,
		Title:      extractTitle(text),
		StatusCode: resp.StatusCode,
		EngineName: e.Name(),
	}, nil
}

func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}
