// Package identity talks to the identity provider: password-based
// register/login plus token refresh, and a browser-driven federated flow.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/feedbridge/feedcli/pkg/domain"
)

// Client is the password-credential client for the identity provider
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an identity client for the given provider base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// credentialResponse is the provider's answer to register/login/refresh
type credentialResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds, 0 means no known expiry
	Username     string `json:"username"`
}

func (r credentialResponse) credential() domain.Credential {
	cred := domain.Credential{Token: r.Token, RefreshToken: r.RefreshToken}
	if r.ExpiresIn > 0 {
		cred.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return cred
}

// SignUp creates a new account and returns its credential
func (c *Client) SignUp(ctx context.Context, identity, secret string) (domain.Credential, error) {
	return c.authenticate(ctx, "/api/users/register", identity, secret, true)
}

// SignIn authenticates an existing account
func (c *Client) SignIn(ctx context.Context, identity, secret string) (domain.Credential, error) {
	return c.authenticate(ctx, "/api/users/login", identity, secret, false)
}

// Refresh exchanges a refresh token for a fresh credential
func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.post(ctx, "/api/auth/refresh", body)
	if err != nil {
		return domain.Credential{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Credential{}, c.classify(resp, false)
	}

	var cr credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return domain.Credential{}, fmt.Errorf("decode refresh response: %w", err)
	}
	return cr.credential(), nil
}

// SignOut invalidates the token on the provider side. Best effort, the
// session manager treats local state as the source of truth.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("create logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify(resp, false)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context, path, identity, secret string, signUp bool) (domain.Credential, error) {
	body := map[string]string{"username": identity, "password": secret}
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return domain.Credential{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Credential{}, c.classify(resp, signUp)
	}

	var cr credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return domain.Credential{}, fmt.Errorf("decode auth response: %w", err)
	}
	if cr.Token == "" {
		return domain.Credential{}, domain.NewError(domain.ErrRequestFailed, "provider returned no token")
	}
	return cr.credential(), nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrNetwork, err)
	}
	return resp, nil
}

// classify maps a non-2xx provider response into the error taxonomy
func (c *Client) classify(resp *http.Response, signUp bool) error {
	msg := errorMessage(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "invalid username or password"
		}
		return &domain.Error{Kind: domain.ErrInvalidCredential, Status: resp.StatusCode, Message: msg}
	case signUp && resp.StatusCode == http.StatusConflict:
		if msg == "" {
			msg = "account already exists"
		}
		return &domain.Error{Kind: domain.ErrAccountExists, Status: resp.StatusCode, Message: msg}
	case signUp && resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "password"):
		return &domain.Error{Kind: domain.ErrWeakSecret, Status: resp.StatusCode, Message: msg}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &domain.Error{Kind: domain.ErrRequestFailed, Status: resp.StatusCode, Message: msg}
}

// errorMessage pulls the human-readable message out of an error body
func errorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}
