package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/recipeparse/cleaner"
	"github.com/use-agent/recipeparse/models"
)

// Extractor is the recipe extraction dependency of the handlers.
// *recipe.Extractor implements it.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (*models.RecipeRecord, error)
}

// Extract returns a handler for GET /parse and GET /extract.
//
// Flow:
//  1. Read the url query parameter (validation happens in the extractor).
//  2. Extractor.Extract → RecipeRecord.
//  3. Respond with JSON, or Markdown when format=markdown.
//
// Errors are written as {"error": {"code", "message"}} with the status from
// mapErrorToStatus.
func Extract(ex Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawURL := c.Query("url")

		rec, err := ex.Extract(c.Request.Context(), rawURL)
		if err != nil {
			respondError(c, err)
			return
		}

		if c.Query("format") == "markdown" {
			md, err := cleaner.RecipeMarkdown(rec, rawURL)
			if err != nil {
				respondError(c, models.NewRecipeError(models.ErrCodeInternal, "markdown rendering failed", err))
				return
			}
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
			return
		}

		c.JSON(http.StatusOK, rec)
	}
}

// respondError maps a RecipeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var recipeErr *models.RecipeError
	if !errors.As(err, &recipeErr) {
		recipeErr = models.NewRecipeError(models.ErrCodeInternal, "internal error", err)
	}

	status := mapErrorToStatus(recipeErr)
	if status >= http.StatusInternalServerError {
		slog.Warn("extraction failed",
			"url", c.Query("url"),
			"code", recipeErr.Code,
			"error", err,
		)
	}

	c.JSON(status, models.ErrorResponse{Error: recipeErr.ToDetail()})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.RecipeError) int {
	switch e.Code {
	case models.ErrCodeInvalidURL:
		return http.StatusBadRequest // 400
	case models.ErrCodeFetchFailed, models.ErrCodeFetchTimeout:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
