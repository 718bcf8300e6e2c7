// Package summarizer produces short item summaries via an OpenAI-compatible
// endpoint.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/repeater/v2"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/feedbridge/feedcli/pkg/config"
	"github.com/feedbridge/feedcli/pkg/domain"
)

const systemPrompt = `You are an assistant that summarizes RSS feed items.
Write a 2-3 sentence summary of the item. Start with the subject matter itself,
never with phrases like "The article discusses". Keep the summary in the same
language as the item.`

// Summarizer generates summaries for feed items
type Summarizer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	retry       config.RetryConfig
	concurrency int
}

// New creates a summarizer from the summarization and retry settings
func New(cfg config.SummaryConfig, retry config.RetryConfig) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 3
	}

	return &Summarizer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		retry:       retry,
		concurrency: cfg.Concurrency,
	}
}

// Summarize produces a short summary of one item. Rate-limited responses
// from the upstream service are retried with the configured backoff.
func (s *Summarizer) Summarize(ctx context.Context, item domain.FeedItem) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(item)},
		},
	}

	retrier := repeater.NewBackoff(s.retry.MaxAttempts, s.retry.BackoffBase,
		repeater.WithMaxDelay(s.retry.MaxDelay), repeater.WithJitter(0.5))

	var summary string
	var permErr error
	err := retrier.Do(ctx, func() error {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if isRateLimited(err) {
				return err // retryable
			}
			permErr = domain.WrapError(domain.ErrRequestFailed, err)
			return nil
		}
		if len(resp.Choices) == 0 {
			permErr = domain.NewError(domain.ErrRequestFailed, "empty response from summarization service")
			return nil
		}
		summary = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if permErr != nil {
		return "", permErr
	}
	if err != nil {
		return "", domain.NewError(domain.ErrRateLimited,
			fmt.Sprintf("summarization rate limited after %d attempts", s.retry.MaxAttempts))
	}
	return summary, nil
}

// SummarizeAll summarizes items concurrently, preserving input order.
// A failed item doesn't stop the rest; its slot holds an empty string and
// the first error is returned after all items are done.
func (s *Summarizer) SummarizeAll(ctx context.Context, items []domain.FeedItem) ([]string, error) {
	summaries := make([]string, len(items))
	errs := make([]error, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			res, err := s.Summarize(ctx, item)
			summaries[i], errs[i] = res, err
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures land in errs

	return summaries, errors.Join(errs...)
}

func buildPrompt(item domain.FeedItem) string {
	var sb strings.Builder
	sb.WriteString("Title: ")
	sb.WriteString(item.Title)
	sb.WriteString("\n")
	if item.Description != "" {
		content := item.Description
		if len(content) > 2000 {
			content = content[:2000] + "..."
		}
		sb.WriteString("Content: ")
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	sb.WriteString("\nSummarize this item.")
	return sb.String()
}

// isRateLimited reports whether the upstream rejected the call with 429
func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
