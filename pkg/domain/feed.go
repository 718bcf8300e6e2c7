package domain

import "time"

// FeedSubscription is a user's record of one RSS source they follow.
// The authoritative copy lives in the backend; the client holds a transient
// read-mostly copy for the duration of a view.
type FeedSubscription struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// FeedItem is one entry within a feed's fetched content, never persisted
// client-side. Items have no identity beyond their position in the list.
type FeedItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

// FeedDetail is the backend's view of a single subscription with its
// freshly fetched items
type FeedDetail struct {
	FeedName string     `json:"feedName"`
	FeedURL  string     `json:"feedUrl"`
	Items    []FeedItem `json:"items"`
}

// Profile is the backend-side user record, used to cross-validate a
// provider session against the backend's own user store
type Profile struct {
	ID        string    `json:"id"`
	Identity  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
