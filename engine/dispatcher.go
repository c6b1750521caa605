package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/recipeparse/metrics"
)

// Dispatcher walks the configured engines in order, cheapest first. Each
// engine is tried at most once per request; the next one is only started
// when the previous attempt was blocked or failed in transport.
type Dispatcher struct {
	engines []Engine
}

// NewDispatcher creates a Dispatcher. Nil engines are skipped so optional
// engines can be passed unconditionally.
func NewDispatcher(engines ...Engine) *Dispatcher {
	d := &Dispatcher{}
	for _, e := range engines {
		if e == nil || isNilEngine(e) {
			continue
		}
		d.engines = append(d.engines, e)
	}
	return d
}

// Engines returns the names of the engines in escalation order.
func (d *Dispatcher) Engines() []string {
	names := make([]string, 0, len(d.engines))
	for _, e := range d.engines {
		names = append(names, e.Name())
	}
	return names
}

// Dispatch returns the first successful result. When every engine fails it
// returns the last engine's error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, errors.New("dispatcher: no engines configured")
	}

	var lastErr error
	for i, eng := range d.engines {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, fmt.Errorf("%w (after: %v)", err, lastErr)
			}
			return nil, err
		}

		start := time.Now()
		result, err := eng.Fetch(ctx, req)
		elapsed := time.Since(start)

		if err == nil {
			metrics.ObserveFetch(eng.Name(), metrics.OutcomeOK, elapsed)
			slog.Debug("engine fetched page", "engine", eng.Name(), "url", req.URL, "status", result.StatusCode, "ms", elapsed.Milliseconds())
			return result, nil
		}

		lastErr = err
		if !Escalates(err) {
			metrics.ObserveFetch(eng.Name(), metrics.OutcomeError, elapsed)
			return nil, err
		}

		metrics.ObserveFetch(eng.Name(), metrics.OutcomeBlocked, elapsed)
		if i < len(d.engines)-1 {
			slog.Info("engine failed, escalating",
				"engine", eng.Name(),
				"next", d.engines[i+1].Name(),
				"url", req.URL,
				"error", err,
			)
		}
	}

	return nil, lastErr
}

// isNilEngine catches typed nil pointers wrapped in the Engine interface,
// e.g. a *ProxyEngine returned by NewProxyEngine without an API key.
func isNilEngine(e Engine) bool {
	switch v := e.(type) {
	case *ProxyEngine:
		return v == nil
	case *RodEngine:
		return v == nil
	case *HTTPEngine:
		return v == nil
	}
	return false
}
