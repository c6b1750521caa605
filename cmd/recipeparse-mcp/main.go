package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResponse mirrors the recipeparse API error body.
type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("RECIPEPARSE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"recipeparse",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_recipe",
		mcp.WithDescription("Extract a structured recipe (name, ingredients, instructions, times, yield) from a recipe web page. Uses schema.org markup when present and falls back to page heuristics."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default, readable recipe card) or 'json' (structured record)"),
			mcp.Enum("markdown", "json"),
		),
	)
	s.AddTool(extractTool, handleExtractRecipe(strings.TrimRight(apiURL, "/")))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleExtractRecipe(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", "markdown")

		body, status, err := apiGet(ctx, client, apiURL, pageURL, format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(apiErrorMessage(body, status)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// apiGet calls GET /extract and returns the raw body and status.
func apiGet(ctx context.Context, client *http.Client, apiURL, pageURL, format string) ([]byte, int, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	if format == "markdown" {
		q.Set("format", "markdown")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/extract?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func apiErrorMessage(body []byte, status int) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != nil {
		return fmt.Sprintf("%s: %s", e.Error.Code, e.Error.Message)
	}
	return fmt.Sprintf("extraction failed with HTTP %d", status)
}
