// Package api performs authenticated calls against the aggregator backend
// and normalizes their outcomes into the client's error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/feedbridge/feedcli/pkg/domain"
)

//go:generate moq -out mocks/credentials.go -pkg mocks -skip-ensure -fmt goimports . CredentialSource

// CredentialSource provides the current bearer credential, refreshing it
// when needed. Implemented by the session manager.
type CredentialSource interface {
	CurrentCredential(ctx context.Context) (domain.Credential, error)
}

// CallOpts is the per-call retry policy. The zero value means a single
// attempt with no backoff, which is right for ordinary CRUD calls; only the
// summarization integration opts in to retries.
type CallOpts struct {
	RetryEligible bool
	MaxAttempts   int           // total attempts including the first, default 3
	BackoffBase   time.Duration // initial delay, doubled per attempt, default 1s
	MaxDelay      time.Duration // cap on a single delay, default 10s
}

func (o CallOpts) withDefaults() CallOpts {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 10 * time.Second
	}
	return o
}

// Client calls the backend. It is stateless per call: the only state it
// consults is the session's current credential.
type Client struct {
	baseURL string
	client  *http.Client
	creds   CredentialSource
}

// New creates a backend API client
func New(baseURL string, timeout time.Duration, creds CredentialSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// Call performs one authenticated request and returns the raw JSON body.
// The credential is obtained first; without one the call fails immediately
// with not_authenticated and no network traffic happens. Rate-limited
// responses are retried with exponential backoff and jitter for
// retry-eligible calls only; transport failures are never retried.
func (c *Client) Call(ctx context.Context, method, path string, body any, opts CallOpts) (json.RawMessage, error) {
	cred, err := c.creds.CurrentCredential(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	if !opts.RetryEligible {
		raw, rateLimited, err := c.attempt(ctx, method, path, payload, cred.Token)
		if rateLimited {
			return nil, domain.NewError(domain.ErrRateLimited, "rate limited")
		}
		return raw, err
	}

	opts = opts.withDefaults()
	retrier := repeater.NewBackoff(opts.MaxAttempts, opts.BackoffBase,
		repeater.WithMaxDelay(opts.MaxDelay), repeater.WithJitter(0.5))

	var raw json.RawMessage
	var permErr error
	err = retrier.Do(ctx, func() error {
		res, rateLimited, err := c.attempt(ctx, method, path, payload, cred.Token)
		if rateLimited {
			return fmt.Errorf("rate limited") // the only retryable outcome
		}
		raw, permErr = res, err
		return nil
	})
	if permErr != nil {
		return nil, permErr
	}
	if err != nil {
		return nil, domain.NewError(domain.ErrRateLimited, fmt.Sprintf("rate limited after %d attempts", opts.MaxAttempts))
	}
	return raw, nil
}

// attempt performs a single request. rateLimited signals a 429 so the
// caller can decide whether to retry; every other outcome is final.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, token string) (raw json.RawMessage, rateLimited bool, err error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false, domain.WrapError(domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, domain.WrapError(domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := messageFromBody(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, false, &domain.Error{Kind: domain.ErrRequestFailed, Status: resp.StatusCode, Message: msg}
	}

	return data, false, nil
}

// messageFromBody extracts the backend's human-readable failure message
func messageFromBody(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}
