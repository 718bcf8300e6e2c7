// Package view renders sessions, feeds and articles for the terminal.
package view

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/feedbridge/feedcli/pkg/content"
	"github.com/feedbridge/feedcli/pkg/domain"
)

// palette holds the colors for one terminal theme
type palette struct {
	header *color.Color
	item   *color.Color
	meta   *color.Color
	errMsg *color.Color
}

func paletteFor(dark bool) palette {
	if dark {
		return palette{
			header: color.New(color.FgHiWhite, color.Bold),
			item:   color.New(color.FgHiCyan),
			meta:   color.New(color.FgHiBlack),
			errMsg: color.New(color.FgHiRed),
		}
	}
	return palette{
		header: color.New(color.FgBlack, color.Bold),
		item:   color.New(color.FgBlue),
		meta:   color.New(color.FgWhite),
		errMsg: color.New(color.FgRed),
	}
}

// View writes rendered screens to out. Safe for concurrent use, session
// change notifications may arrive from other goroutines.
type View struct {
	out io.Writer

	mu  sync.Mutex
	pal palette
}

// New creates a view with the given theme
func New(out io.Writer, dark bool) *View {
	return &View{out: out, pal: paletteFor(dark)}
}

// SetDark switches the theme
func (v *View) SetDark(dark bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pal = paletteFor(dark)
}

// SessionChanged renders a session transition. It has the session listener
// signature, so it can be subscribed directly.
func (v *View) SessionChanged(sess domain.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch sess.State {
	case domain.StateAuthenticating:
		v.pal.meta.Fprintln(v.out, "signing in...")
	case domain.StateSignedIn:
		v.pal.header.Fprintf(v.out, "signed in as %s\n", sess.Identity)
	case domain.StateSignedOut:
		v.pal.meta.Fprintln(v.out, "signed out")
	}
}

// Dashboard renders the profile line and the feed list
func (v *View) Dashboard(profile domain.Profile, feeds []domain.FeedSubscription) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pal.header.Fprintf(v.out, "%s's feeds\n", profile.Identity)
	if len(feeds) == 0 {
		v.pal.meta.Fprintln(v.out, "no feeds yet, use 'add <name> <url>' to subscribe")
		return
	}
	for _, feed := range feeds {
		v.pal.item.Fprintf(v.out, "  %s  %s\n", feed.ID, feed.Name)
		v.pal.meta.Fprintf(v.out, "      %s\n", feed.URL)
	}
}

// FeedDetail renders one feed with its items, flattening item descriptions
// to plain text
func (v *View) FeedDetail(detail domain.FeedDetail) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pal.header.Fprintf(v.out, "%s (%s)\n", detail.FeedName, detail.FeedURL)
	for i, item := range detail.Items {
		v.pal.item.Fprintf(v.out, "  %d. %s\n", i+1, item.Title)
		v.pal.meta.Fprintf(v.out, "     %s\n", item.Link)
		if desc := PlainText(item.Description); desc != "" {
			fmt.Fprintf(v.out, "     %s\n", truncate(desc, 200))
		}
	}
}

// Article renders a reader-mode article
func (v *View) Article(article content.Article) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if article.Title != "" {
		v.pal.header.Fprintln(v.out, article.Title)
	}
	fmt.Fprintln(v.out, article.Text)
}

// Summary renders an item summary
func (v *View) Summary(title, summary string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pal.header.Fprintln(v.out, title)
	fmt.Fprintln(v.out, summary)
}

// Error renders a failure as a message the user can act on
func (v *View) Error(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pal.errMsg.Fprintln(v.out, messageFor(err))
}

// Info renders a neutral status line
func (v *View) Info(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pal.meta.Fprintf(v.out, format+"\n", args...)
}

// messageFor maps the error taxonomy to user-facing messages. Unknown
// errors pass through as-is.
func messageFor(err error) string {
	switch domain.KindOf(err) {
	case domain.ErrInvalidCredential:
		return "invalid username or password"
	case domain.ErrAccountExists:
		return "an account with this username already exists"
	case domain.ErrWeakSecret:
		return "password is too weak, use at least 6 characters"
	case domain.ErrUserCancelled:
		return "sign-in cancelled"
	case domain.ErrNotAuthenticated:
		return "not signed in, use 'login' first"
	case domain.ErrRateLimited:
		return "the service is busy, try again in a moment"
	case domain.ErrNetwork:
		return "network error, check your connection"
	case domain.ErrBackendVerification:
		return "the backend rejected this account, try signing in again"
	default:
		return err.Error()
	}
}

// truncate cuts s to at most limit bytes on a rune boundary
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}
