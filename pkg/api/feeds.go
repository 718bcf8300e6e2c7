package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/feedbridge/feedcli/pkg/domain"
)

// ListFeeds returns the user's feed subscriptions in backend order
func (c *Client) ListFeeds(ctx context.Context) ([]domain.FeedSubscription, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/api/feeds", nil, CallOpts{})
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}

	feeds := []domain.FeedSubscription{}
	if err := json.Unmarshal(raw, &feeds); err != nil {
		return nil, fmt.Errorf("decode feeds: %w", err)
	}
	return feeds, nil
}

// AddFeed subscribes to a new RSS source. The URL is checked syntactically
// before the request goes out.
func (c *Client) AddFeed(ctx context.Context, name, feedURL string) (domain.FeedSubscription, error) {
	if name == "" {
		return domain.FeedSubscription{}, domain.NewError(domain.ErrRequestFailed, "feed name is required")
	}
	if u, err := url.Parse(feedURL); err != nil || u.Scheme == "" || u.Host == "" {
		return domain.FeedSubscription{}, domain.NewError(domain.ErrRequestFailed, "feed url must be an absolute URL")
	}

	body := map[string]string{"name": name, "url": feedURL}
	raw, err := c.Call(ctx, http.MethodPost, "/api/feeds/add", body, CallOpts{})
	if err != nil {
		return domain.FeedSubscription{}, fmt.Errorf("add feed: %w", err)
	}

	var feed domain.FeedSubscription
	if err := json.Unmarshal(raw, &feed); err != nil {
		return domain.FeedSubscription{}, fmt.Errorf("decode feed: %w", err)
	}
	return feed, nil
}

// GetFeed returns one subscription with its freshly fetched items
func (c *Client) GetFeed(ctx context.Context, id string) (domain.FeedDetail, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/api/feeds/"+url.PathEscape(id), nil, CallOpts{})
	if err != nil {
		return domain.FeedDetail{}, fmt.Errorf("get feed %s: %w", id, err)
	}

	var detail domain.FeedDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return domain.FeedDetail{}, fmt.Errorf("decode feed detail: %w", err)
	}
	return detail, nil
}

// Me returns the backend's profile for the current session
func (c *Client) Me(ctx context.Context) (domain.Profile, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/api/users/me", nil, CallOpts{})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// VerifyProfile checks an explicit token against the backend's user record.
// Used by the session manager before a session is committed, so it bypasses
// the credential source on purpose.
func (c *Client) VerifyProfile(ctx context.Context, token string) (domain.Profile, error) {
	raw, rateLimited, err := c.attempt(ctx, http.MethodGet, "/api/users/me", nil, token)
	if rateLimited {
		return domain.Profile{}, domain.NewError(domain.ErrRateLimited, "rate limited")
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("verify profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// Summarize asks the backend's summarization proxy for a short summary of
// one item. This is the only retry-eligible call: the upstream service rate
// limits aggressively, so the configured backoff policy applies.
func (c *Client) Summarize(ctx context.Context, item domain.FeedItem, opts CallOpts) (string, error) {
	opts.RetryEligible = true
	body := map[string]string{"title": item.Title, "content": item.Description}
	raw, err := c.Call(ctx, http.MethodPost, "/api/summarize", body, opts)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	var resp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode summary: %w", err)
	}
	return resp.Summary, nil
}
