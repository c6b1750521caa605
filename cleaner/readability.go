package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length for readability output
// to count as the page's main content.
const minContentLength = 50

// MainContent runs the Mozilla Readability algorithm on rawHTML and returns
// the article HTML of the page's main content.
//
// ok is false when the URL is unusable, readability errors out, or the
// extracted text is shorter than minContentLength. Callers then work on the
// whole document; the returned Article still carries whatever Title was found.
func MainContent(rawHTML string, sourceURL string) (article readability.Article, ok bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Debug("readability: invalid source URL", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	article, err = readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability: extraction failed", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return article, false
	}

	return article, true
}
