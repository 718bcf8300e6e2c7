package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/feedbridge/feedcli/pkg/domain"
)

// FederatedFlow drives a provider-hosted browser sign-in: it starts a
// loopback callback server, opens the provider page in the user's browser
// and waits for the provider to redirect back with a minted credential.
// This is the desktop equivalent of the web client's popup sign-in.
type FederatedFlow struct {
	authURL string
	timeout time.Duration

	// openBrowser launches the user's browser, replaceable in tests
	openBrowser func(url string) error
}

// flowResult is what the callback handler delivers to the waiting flow
type flowResult struct {
	cred     domain.Credential
	identity string
	err      error
}

// NewFederatedFlow creates a flow against the given provider auth page
func NewFederatedFlow(authURL string, timeout time.Duration) *FederatedFlow {
	return &FederatedFlow{
		authURL:     authURL,
		timeout:     timeout,
		openBrowser: openBrowser,
	}
}

// SignIn runs the interactive flow and returns the minted credential and
// identity. User abandonment (closing the page, denying access, or letting
// the flow time out) comes back as a user_cancelled classification.
func (f *FederatedFlow) SignIn(ctx context.Context) (domain.Credential, string, error) {
	if f.authURL == "" {
		return domain.Credential{}, "", domain.NewError(domain.ErrRequestFailed, "federated sign-in is not configured")
	}

	state, err := nonce()
	if err != nil {
		return domain.Credential{}, "", fmt.Errorf("generate state: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return domain.Credential{}, "", fmt.Errorf("listen for callback: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	results := make(chan flowResult, 1)

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.AppInfo("feedcli", "feedbridge", "1"))
	router.Use(rest.Recoverer(lgr.Default()))
	router.HandleFunc("GET /callback", callbackHandler(state, results))

	srv := &http.Server{Handler: router, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[WARN] callback server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] callback server shutdown error: %v", err)
		}
	}()

	target := f.authURL
	sep := "?"
	if u, err := url.Parse(f.authURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	target += sep + url.Values{"redirect_uri": {redirectURI}, "state": {state}}.Encode()

	log.Printf("[INFO] opening browser for federated sign-in")
	if err := f.openBrowser(target); err != nil {
		// the user can still follow the link manually
		log.Printf("[WARN] can't open browser, visit %s manually: %v", target, err)
	}

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.cred, res.identity, res.err
	case <-timer.C:
		return domain.Credential{}, "", domain.NewError(domain.ErrUserCancelled, "sign-in timed out")
	case <-ctx.Done():
		return domain.Credential{}, "", domain.WrapError(domain.ErrUserCancelled, ctx.Err())
	}
}

// callbackHandler validates the redirect and hands the result to the flow
func callbackHandler(state string, results chan<- flowResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		if errCode := q.Get("error"); errCode != "" {
			res := flowResult{err: &domain.Error{Kind: domain.ErrRequestFailed, Message: errCode}}
			if errCode == "access_denied" {
				res.err = domain.NewError(domain.ErrUserCancelled, "sign-in was cancelled")
			}
			deliver(results, res)
			fmt.Fprint(w, "Sign-in was not completed. You can close this window.")
			return
		}

		token := q.Get("token")
		if token == "" {
			deliver(results, flowResult{err: domain.NewError(domain.ErrRequestFailed, "callback carried no token")})
			http.Error(w, "missing token", http.StatusBadRequest)
			return
		}

		cred := domain.Credential{Token: token, RefreshToken: q.Get("refresh_token")}
		if expires := q.Get("expires_in"); expires != "" {
			if secs, err := strconv.ParseInt(expires, 10, 64); err == nil && secs > 0 {
				cred.ExpiresAt = time.Now().Add(time.Duration(secs) * time.Second)
			}
		}

		deliver(results, flowResult{cred: cred, identity: q.Get("username")})
		fmt.Fprint(w, "Signed in. You can close this window and return to the terminal.")
	}
}

// deliver sends the first result, later duplicates are dropped
func deliver(results chan<- flowResult, res flowResult) {
	select {
	case results <- res:
	default:
	}
}

func nonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// openBrowser launches the default browser for the current platform
func openBrowser(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}
