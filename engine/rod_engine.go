package engine

import (
	"context"
	"fmt"
)

// BrowseFunc renders a page in a real browser. It is provided by the scraper
// package so that engine/ never imports the browser lifecycle code.
type BrowseFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RodEngine is the browser-backed engine. It delegates to a BrowseFunc and
// applies the same status classification as the HTTP engine, so a blocked
// browser visit still escalates to the proxy.
type RodEngine struct {
	browse BrowseFunc
}

// NewRodEngine creates a RodEngine around the injected browse callback.
func NewRodEngine(browse BrowseFunc) *RodEngine {
	return &RodEngine{browse: browse}
}

func (e *RodEngine) Name() string { return "browser" }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.browse == nil {
		return nil, fmt.Errorf("%s: browse func not configured", e.Name())
	}

	result, err := e.browse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name(), err)
	}

	// A status of 0 means the browser could not report one; trust the DOM.
	if result.StatusCode != 0 && !successStatus(result.StatusCode) {
		return nil, &StatusError{Engine: e.Name(), StatusCode: result.StatusCode, URL: req.URL}
	}
	if result.HTML == "" {
		return nil, fmt.Errorf("%s: %w", e.Name(), ErrEmptyBody)
	}

	result.URL = req.URL
	result.EngineName = e.Name()
	return result, nil
}
