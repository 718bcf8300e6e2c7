package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedcli/pkg/domain"
)

// fakeBackend keeps per-test feed state behind the endpoints the real
// backend exposes
type fakeBackend struct {
	mu    sync.Mutex
	feeds []domain.FeedSubscription
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/feeds", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		feeds := b.feeds
		if feeds == nil {
			feeds = []domain.FeedSubscription{}
		}
		require.NoError(t, json.NewEncoder(w).Encode(feeds))
	})
	mux.HandleFunc("POST /api/feeds/add", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		b.mu.Lock()
		feed := domain.FeedSubscription{ID: "f1", Name: req.Name, URL: req.URL, CreatedAt: time.Now()}
		b.feeds = append(b.feeds, feed)
		b.mu.Unlock()

		require.NoError(t, json.NewEncoder(w).Encode(feed))
	})
	mux.HandleFunc("GET /api/feeds/{id}", func(w http.ResponseWriter, r *http.Request) {
		detail := domain.FeedDetail{
			FeedName: "Tech Blog",
			FeedURL:  "https://example.com/rss",
			Items: []domain.FeedItem{
				{Title: "Go 1.24 released", Link: "https://example.com/go124", Description: "<p>notes</p>"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(detail))
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tkn-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"id": "u1", "username": "alice@example.com"}))
	})
	return mux
}

func TestClient_Feeds(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	c := New(server.URL, 5*time.Second, signedInSource())
	ctx := context.Background()

	t.Run("fresh account has no feeds", func(t *testing.T) {
		feeds, err := c.ListFeeds(ctx)
		require.NoError(t, err)
		assert.NotNil(t, feeds)
		assert.Empty(t, feeds)
	})

	t.Run("added feed comes back on the list", func(t *testing.T) {
		added, err := c.AddFeed(ctx, "Tech Blog", "https://example.com/rss")
		require.NoError(t, err)
		assert.Equal(t, "Tech Blog", added.Name)
		assert.Equal(t, "https://example.com/rss", added.URL)

		feeds, err := c.ListFeeds(ctx)
		require.NoError(t, err)
		require.Len(t, feeds, 1)
		assert.Equal(t, added.Name, feeds[0].Name)
		assert.Equal(t, added.URL, feeds[0].URL)
	})

	t.Run("feed detail includes items", func(t *testing.T) {
		detail, err := c.GetFeed(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, "Tech Blog", detail.FeedName)
		require.Len(t, detail.Items, 1)
		assert.Equal(t, "Go 1.24 released", detail.Items[0].Title)
	})

	t.Run("profile for the current session", func(t *testing.T) {
		profile, err := c.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", profile.Identity)
	})
}

func TestClient_AddFeed_Validation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid input must not reach the backend")
	}))
	defer server.Close()

	c := New(server.URL, 5*time.Second, signedInSource())

	_, err := c.AddFeed(context.Background(), "", "https://example.com/rss")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrRequestFailed))

	_, err = c.AddFeed(context.Background(), "Tech", "not-a-url")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrRequestFailed))

	_, err = c.AddFeed(context.Background(), "Tech", "/relative/path")
	require.Error(t, err)
}

func TestClient_VerifyProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "username": "alice@example.com"})
		case "Bearer throttled":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
		}
	}))
	defer server.Close()

	// credential source must not be consulted, the token is explicit
	c := New(server.URL, 5*time.Second, nil)

	t.Run("valid token", func(t *testing.T) {
		profile, err := c.VerifyProfile(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", profile.Identity)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := c.VerifyProfile(context.Background(), "bad")
		require.Error(t, err)
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, http.StatusUnauthorized, derr.Status)
	})

	t.Run("throttled", func(t *testing.T) {
		_, err := c.VerifyProfile(context.Background(), "throttled")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrRateLimited))
	})
}

func TestClient_Summarize(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Go 1.24 released", req["title"])
		json.NewEncoder(w).Encode(map[string]string{"summary": "release notes in brief"})
	}))
	defer server.Close()

	c := New(server.URL, 5*time.Second, signedInSource())
	item := domain.FeedItem{Title: "Go 1.24 released", Description: "long body"}

	summary, err := c.Summarize(context.Background(), item, CallOpts{BackoffBase: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "release notes in brief", summary)
	assert.Equal(t, 2, attempts, "retried once after throttling")
}
