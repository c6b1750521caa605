package engine

import (
	"context"
	"errors"
	"fmt"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "browser", "proxy").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the output of a successful engine fetch. It lives for a
// single request and is never stored.
type FetchResult struct {
	// HTML is the decoded (UTF-8) page body.
	HTML string

	// URL is the URL the caller asked for.
	URL string

	// FinalURL is the URL after following redirects. Relative references in
	// the page resolve against it.
	FinalURL string

	Title      string
	StatusCode int
	EngineName string
}

// blockedStatuses are the responses anti-bot layers typically answer with.
// Only these move the dispatcher on to a heavier engine.
var blockedStatuses = map[int]struct{}{
	403: {},
	429: {},
	503: {},
}

// StatusError is returned when the upstream answered with an HTTP error status.
type StatusError struct {
	Engine     string
	StatusCode int
	URL        string
	Snippet    string
}

func (e *StatusError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s: HTTP %d for %s. Snippet: %s", e.Engine, e.StatusCode, e.URL, e.Snippet)
	}
	return fmt.Sprintf("%s: HTTP %d for %s", e.Engine, e.StatusCode, e.URL)
}

// Blocked reports whether the status looks like an anti-bot rejection.
func (e *StatusError) Blocked() bool {
	_, ok := blockedStatuses[e.StatusCode]
	return ok
}

// successStatus reports whether code is a 2xx answer. Anything else,
// including an unfollowed 3xx, is a failed fetch.
func successStatus(code int) bool {
	return code >= 200 && code <= 299
}

// ErrEmptyBody is returned when a successful response carried no content.
var ErrEmptyBody = errors.New("empty response body")

// Escalates reports whether a failed attempt should be handed to the next
// engine. Blocked statuses and transport failures escalate; definitive
// upstream answers (404, 500, an empty 200) do not.
func Escalates(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Blocked()
	}
	if errors.Is(err, ErrEmptyBody) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// snippet returns the first n bytes of body for error messages.
func snippet(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
