package scraper

import (
	"net/url"
	"strings"

	"github.com/use-agent/recipeparse/models"
)

// ValidateURL checks that raw is an absolute http(s) URL with a host.
// It never touches the network.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, models.NewRecipeError(models.ErrCodeInvalidURL, "missing url parameter", nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, models.NewRecipeError(models.ErrCodeInvalidURL, "malformed url: "+raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, models.NewRecipeError(models.ErrCodeInvalidURL, "url must use http or https: "+raw, nil)
	}
	host := u.Hostname()
	if host == "" || strings.ContainsAny(host, " \t\n") {
		return nil, models.NewRecipeError(models.ErrCodeInvalidURL, "url has no valid host: "+raw, nil)
	}
	return u, nil
}
