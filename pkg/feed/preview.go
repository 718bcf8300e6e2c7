// Package feed validates and previews RSS/Atom sources before they are
// subscribed on the backend.
package feed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/feedbridge/feedcli/pkg/domain"
)

// Preview is what a candidate feed looks like before subscribing
type Preview struct {
	Title       string
	Description string
	Link        string
	ItemCount   int
	Items       []domain.FeedItem
}

// Previewer fetches and parses candidate feeds
type Previewer struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewPreviewer creates a feed previewer
func NewPreviewer(timeout time.Duration, userAgent string) *Previewer {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Previewer{parser: parser, timeout: timeout}
}

// maxPreviewItems limits how many items a preview carries
const maxPreviewItems = 5

// ValidateURL checks that the candidate is an absolute http(s) URL
func ValidateURL(feedURL string) error {
	u, err := url.Parse(feedURL)
	if err != nil {
		return fmt.Errorf("invalid feed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("feed url must be absolute")
	}
	return nil
}

// Fetch retrieves and parses the candidate feed. A feed that doesn't parse
// is rejected here, before the backend is asked to subscribe.
func (p *Previewer) Fetch(ctx context.Context, feedURL string) (Preview, error) {
	if err := ValidateURL(feedURL); err != nil {
		return Preview{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parsed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	preview := Preview{
		Title:       parsed.Title,
		Description: parsed.Description,
		Link:        parsed.Link,
		ItemCount:   len(parsed.Items),
	}
	for i, item := range parsed.Items {
		if i >= maxPreviewItems {
			break
		}
		preview.Items = append(preview.Items, domain.FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
		})
	}
	return preview, nil
}
