// Package content implements reader mode: fetching an item's page and
// extracting its readable text.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"

	"github.com/feedbridge/feedcli/pkg/config"
)

// Article is the readable form of an item's page
type Article struct {
	Title string
	Text  string
}

// Reader fetches item pages and extracts readable text with trafilatura
type Reader struct {
	client        *http.Client
	userAgent     string
	minTextLength int
}

// NewReader creates a reader-mode extractor
func NewReader(cfg config.ExtractionConfig) *Reader {
	return &Reader{
		client:        &http.Client{Timeout: cfg.Timeout},
		userAgent:     cfg.UserAgent,
		minTextLength: cfg.MinTextLength,
	}
}

// Extract retrieves the page at link and returns its readable text.
// Pages whose extracted text is shorter than the configured minimum are
// rejected as not readable.
func (r *Reader) Extract(ctx context.Context, link string) (Article, error) {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return Article{}, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return Article{}, fmt.Errorf("invalid URL: %s", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return Article{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch URL %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, link)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	result, err := trafilatura.Extract(resp.Body, opts)
	if err != nil {
		return Article{}, fmt.Errorf("extract content from %s: %w", link, err)
	}
	if result == nil || result.ContentText == "" {
		return Article{}, fmt.Errorf("no text content extracted from %s", link)
	}

	text := strings.TrimSpace(result.ContentText)
	if len(text) < r.minTextLength {
		return Article{}, fmt.Errorf("page at %s is not readable, extracted %d chars", link, len(text))
	}

	return Article{Title: result.Metadata.Title, Text: text}, nil
}
