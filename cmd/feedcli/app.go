package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/feedbridge/feedcli/pkg/api"
	"github.com/feedbridge/feedcli/pkg/config"
	"github.com/feedbridge/feedcli/pkg/content"
	"github.com/feedbridge/feedcli/pkg/domain"
	"github.com/feedbridge/feedcli/pkg/feed"
	"github.com/feedbridge/feedcli/pkg/session"
	"github.com/feedbridge/feedcli/pkg/store"
	"github.com/feedbridge/feedcli/pkg/summarizer"
	"github.com/feedbridge/feedcli/pkg/view"
)

// app is the interactive command loop
type app struct {
	in         io.Reader
	ui         *view.View
	mgr        *session.Manager
	api        *api.Client
	previewer  *feed.Previewer
	reader     *content.Reader
	summarizer *summarizer.Summarizer // nil when local summarization is disabled
	store      *store.Store
	retry      config.RetryConfig
}

const helpText = `commands:
  signup <email> <password>   create an account
  login <email> <password>    sign in
  federated                   sign in with the federated provider
  logout                      sign out
  whoami                      show the current session
  feeds                       show the dashboard
  add <name> <url>            subscribe to a feed
  show <feed-id>              show a feed's items
  read <feed-id> <item#>      reader mode for one item
  sum <feed-id> <item#>       summarize one item
  dark on|off                 switch the theme
  quit                        exit`

// run reads commands until EOF, quit or context cancellation
func (a *app) run(ctx context.Context) error {
	scanner := bufio.NewScanner(a.in)
	a.ui.Info("feedcli ready, 'help' lists commands")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		a.dispatch(ctx, cmd, args)
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		a.ui.Info(helpText)
	case "signup":
		if len(args) != 2 {
			a.ui.Info("usage: signup <email> <password>")
			return
		}
		if _, err := a.mgr.SignUp(ctx, args[0], args[1]); err != nil {
			a.ui.Error(err)
		}
	case "login":
		if len(args) != 2 {
			a.ui.Info("usage: login <email> <password>")
			return
		}
		if _, err := a.mgr.SignIn(ctx, args[0], args[1]); err != nil {
			a.ui.Error(err)
		}
	case "federated", "google":
		if _, err := a.mgr.SignInFederated(ctx); err != nil {
			a.ui.Error(err)
		}
	case "logout":
		a.mgr.SignOut(ctx)
	case "whoami":
		sess := a.mgr.Current()
		if !sess.SignedIn() {
			a.ui.Info("not signed in")
			return
		}
		a.ui.Info("signed in as %s", sess.Identity)
	case "feeds":
		a.dashboard(ctx)
	case "add":
		if len(args) != 2 {
			a.ui.Info("usage: add <name> <url>")
			return
		}
		a.addFeed(ctx, args[0], args[1])
	case "show":
		if len(args) != 1 {
			a.ui.Info("usage: show <feed-id>")
			return
		}
		detail, err := a.api.GetFeed(ctx, args[0])
		if err != nil {
			a.ui.Error(err)
			return
		}
		a.ui.FeedDetail(detail)
	case "read":
		a.readItem(ctx, args)
	case "sum":
		a.summarizeItem(ctx, args)
	case "dark":
		a.setTheme(ctx, args)
	default:
		a.ui.Info("unknown command %q, 'help' lists commands", cmd)
	}
}

// dashboard fetches the profile and feed list concurrently
func (a *app) dashboard(ctx context.Context) {
	var profile domain.Profile
	var feeds []domain.FeedSubscription

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = a.api.Me(gctx)
		return err
	})
	g.Go(func() (err error) {
		feeds, err = a.api.ListFeeds(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Dashboard(profile, feeds)
}

// addFeed previews the candidate before subscribing, so a dead or non-feed
// URL is rejected without touching the backend
func (a *app) addFeed(ctx context.Context, name, feedURL string) {
	preview, err := a.previewer.Fetch(ctx, feedURL)
	if err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Info("found %q with %d items", preview.Title, preview.ItemCount)

	added, err := a.api.AddFeed(ctx, name, feedURL)
	if err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Info("subscribed to %s (%s)", added.Name, added.ID)
}

func (a *app) readItem(ctx context.Context, args []string) {
	item, ok := a.pickItem(ctx, args, "read")
	if !ok {
		return
	}
	article, err := a.reader.Extract(ctx, item.Link)
	if err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Article(article)
}

// summarizeItem uses the local summarization endpoint when configured,
// otherwise the backend's proxy
func (a *app) summarizeItem(ctx context.Context, args []string) {
	item, ok := a.pickItem(ctx, args, "sum")
	if !ok {
		return
	}

	var summary string
	var err error
	if a.summarizer != nil {
		summary, err = a.summarizer.Summarize(ctx, item)
	} else {
		opts := api.CallOpts{MaxAttempts: a.retry.MaxAttempts, BackoffBase: a.retry.BackoffBase, MaxDelay: a.retry.MaxDelay}
		summary, err = a.api.Summarize(ctx, item, opts)
	}
	if err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Summary(item.Title, summary)
}

// pickItem resolves "<feed-id> <item#>" arguments to one feed item
func (a *app) pickItem(ctx context.Context, args []string, cmd string) (domain.FeedItem, bool) {
	if len(args) != 2 {
		a.ui.Info("usage: %s <feed-id> <item#>", cmd)
		return domain.FeedItem{}, false
	}
	num, err := strconv.Atoi(args[1])
	if err != nil || num < 1 {
		a.ui.Info("item number must be a positive integer")
		return domain.FeedItem{}, false
	}

	detail, err := a.api.GetFeed(ctx, args[0])
	if err != nil {
		a.ui.Error(err)
		return domain.FeedItem{}, false
	}
	if num > len(detail.Items) {
		a.ui.Info("feed has only %d items", len(detail.Items))
		return domain.FeedItem{}, false
	}
	return detail.Items[num-1], true
}

func (a *app) setTheme(ctx context.Context, args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		a.ui.Info("usage: dark on|off")
		return
	}
	dark := args[0] == "on"
	a.ui.SetDark(dark)
	if err := a.store.SetDarkMode(ctx, dark); err != nil {
		a.ui.Error(err)
		return
	}
	a.ui.Info("theme saved")
}
