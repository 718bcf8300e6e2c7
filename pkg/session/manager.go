// Package session owns the single authenticated session of the client and
// mediates every state transition. Views hold read-only snapshots and get
// notified synchronously on each change.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/feedbridge/feedcli/pkg/domain"
	"github.com/feedbridge/feedcli/pkg/store"
)

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . IdentityProvider
//go:generate moq -out mocks/federated.go -pkg mocks -skip-ensure -fmt goimports . FederatedProvider
//go:generate moq -out mocks/verifier.go -pkg mocks -skip-ensure -fmt goimports . ProfileVerifier
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . CredentialStore

// minSecretLen is the client-side secret policy, checked before any network call
const minSecretLen = 6

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ErrSuperseded is returned when a sign-in attempt resolves after a later
// attempt (or a sign-out) has already changed the session; its result is
// discarded rather than overwriting the newer state.
var ErrSuperseded = errors.New("attempt superseded by a later one")

// IdentityProvider issues and revokes credentials
type IdentityProvider interface {
	SignUp(ctx context.Context, identity, secret string) (domain.Credential, error)
	SignIn(ctx context.Context, identity, secret string) (domain.Credential, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Credential, error)
	SignOut(ctx context.Context, token string) error
}

// FederatedProvider runs an interactive provider-driven sign-in flow
type FederatedProvider interface {
	SignIn(ctx context.Context) (cred domain.Credential, identity string, err error)
}

// ProfileVerifier cross-checks a freshly minted credential against the
// backend's own user record
type ProfileVerifier interface {
	VerifyProfile(ctx context.Context, token string) (domain.Profile, error)
}

// CredentialStore persists the session across process restarts
type CredentialStore interface {
	SaveSession(ctx context.Context, sess store.PersistedSession) error
	LoadSession(ctx context.Context) (store.PersistedSession, error)
	ClearSession(ctx context.Context) error
}

// Listener observes session snapshots after each committed transition
type Listener func(domain.Session)

// Manager maintains exactly one session for the process lifetime
type Manager struct {
	provider    IdentityProvider
	federated   FederatedProvider
	verifier    ProfileVerifier
	store       CredentialStore
	refreshSkew time.Duration

	mu        sync.Mutex
	sess      domain.Session
	attempt   uint64 // id of the most recently initiated attempt
	listeners map[int]Listener
	nextID    int
}

// New creates a session manager with injected collaborators. The initial
// state is signed_out until Restore is called.
func New(provider IdentityProvider, federated FederatedProvider, verifier ProfileVerifier, st CredentialStore, refreshSkew time.Duration) *Manager {
	if refreshSkew <= 0 {
		refreshSkew = 30 * time.Second
	}
	return &Manager{
		provider:    provider,
		federated:   federated,
		verifier:    verifier,
		store:       st,
		refreshSkew: refreshSkew,
		sess:        domain.Session{State: domain.StateSignedOut},
		listeners:   make(map[int]Listener),
	}
}

// Current returns a read-only snapshot of the session
func (m *Manager) Current() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// OnStateChange registers a listener invoked synchronously on every state or
// identity change, and returns its unsubscribe function.
func (m *Manager) OnStateChange(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// SignUp creates a new account and establishes a session. The identity and
// secret are validated client-side before any network call.
func (m *Manager) SignUp(ctx context.Context, identity, secret string) (domain.Session, error) {
	if err := validateCredentials(identity, secret); err != nil {
		return m.Current(), err
	}

	att := m.begin(identity)
	cred, err := m.provider.SignUp(ctx, identity, secret)
	if err != nil {
		return m.fail(att, err)
	}
	return m.commit(ctx, att, identity, cred)
}

// SignIn authenticates an existing account and establishes a session
func (m *Manager) SignIn(ctx context.Context, identity, secret string) (domain.Session, error) {
	if err := validateCredentials(identity, secret); err != nil {
		return m.Current(), err
	}

	att := m.begin(identity)
	cred, err := m.provider.SignIn(ctx, identity, secret)
	if err != nil {
		return m.fail(att, err)
	}
	return m.commit(ctx, att, identity, cred)
}

// SignInFederated runs the provider-driven interactive flow. Cancellation by
// the user is a no-op outcome: the session returns to signed_out and the
// error is classified user_cancelled.
func (m *Manager) SignInFederated(ctx context.Context) (domain.Session, error) {
	att := m.begin("")
	cred, identity, err := m.federated.SignIn(ctx)
	if err != nil {
		return m.fail(att, err)
	}
	return m.commit(ctx, att, identity, cred)
}

// SignOut tears the session down. It always succeeds locally: remote
// invalidation and storage failures are logged, not surfaced, since local
// state is the source of truth for "is this device logged in".
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	token := m.sess.Credential.Token
	m.attempt++ // supersede any in-flight sign-in
	m.sess = domain.Session{State: domain.StateSignedOut}
	m.mu.Unlock()

	if token != "" {
		if err := m.provider.SignOut(ctx, token); err != nil {
			log.Printf("[WARN] remote sign-out failed: %v", err)
		}
	}
	if err := m.store.ClearSession(ctx); err != nil {
		log.Printf("[WARN] can't clear persisted session: %v", err)
	}

	m.notify()
}

// CurrentCredential returns the bearer credential for outgoing requests,
// transparently refreshing one that is about to expire. A refresh failure
// forces the session to signed_out.
func (m *Manager) CurrentCredential(ctx context.Context) (domain.Credential, error) {
	m.mu.Lock()
	if !m.sess.SignedIn() {
		m.mu.Unlock()
		return domain.Credential{}, domain.NewError(domain.ErrNotAuthenticated, "not signed in")
	}
	cred := m.sess.Credential
	identity := m.sess.Identity
	m.mu.Unlock()

	if !cred.Expiring(m.refreshSkew) {
		return cred, nil
	}

	if cred.RefreshToken == "" {
		if cred.Expiring(0) { // already expired, nothing to refresh with
			m.forceSignOut(ctx, "credential expired without refresh token")
			return domain.Credential{}, domain.NewError(domain.ErrNotAuthenticated, "credential expired")
		}
		return cred, nil // still usable for a bit
	}

	fresh, err := m.provider.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		m.forceSignOut(ctx, fmt.Sprintf("credential refresh failed: %v", err))
		return domain.Credential{}, domain.WrapError(domain.ErrNotAuthenticated, err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = cred.RefreshToken
	}

	m.mu.Lock()
	// commit only if the session still holds the credential we refreshed
	if !m.sess.SignedIn() || m.sess.Credential.Token != cred.Token {
		current := m.sess.Credential
		m.mu.Unlock()
		if current.Valid() {
			return current, nil
		}
		return domain.Credential{}, domain.NewError(domain.ErrNotAuthenticated, "not signed in")
	}
	m.sess.Credential = fresh
	m.mu.Unlock()

	m.persist(ctx, fresh, identity)
	return fresh, nil
}

// Restore re-establishes a session from persisted state at process start.
// With a stored credential the session passes through authenticating while
// the credential is validated against the backend; otherwise it stays
// signed_out.
func (m *Manager) Restore(ctx context.Context) domain.Session {
	saved, err := m.store.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoSession) {
			log.Printf("[WARN] can't load persisted session: %v", err)
		}
		return m.Current()
	}

	att := m.begin(saved.Identity)
	cred := domain.Credential{Token: saved.Token, RefreshToken: saved.RefreshToken, ExpiresAt: saved.ExpiresAt}

	// refresh an expired stored credential before validating it
	if cred.Expiring(0) && cred.RefreshToken != "" {
		fresh, err := m.provider.Refresh(ctx, cred.RefreshToken)
		if err != nil {
			log.Printf("[INFO] stored credential refresh failed, signing out: %v", err)
			sess, _ := m.fail(att, err)
			m.clearStore(ctx)
			return sess
		}
		if fresh.RefreshToken == "" {
			fresh.RefreshToken = cred.RefreshToken
		}
		cred = fresh
	}

	sess, err := m.commit(ctx, att, saved.Identity, cred)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		log.Printf("[INFO] persisted session rejected, signing out: %v", err)
		m.clearStore(ctx)
	}
	return sess
}

// begin starts a new attempt: bumps the attempt id and moves the session to
// authenticating
func (m *Manager) begin(identity string) uint64 {
	m.mu.Lock()
	m.attempt++
	att := m.attempt
	m.sess = domain.Session{Identity: identity, State: domain.StateAuthenticating}
	m.mu.Unlock()

	m.notify()
	return att
}

// commit verifies the credential against the backend profile and finalizes
// the session, unless the attempt has been superseded meanwhile.
func (m *Manager) commit(ctx context.Context, att uint64, identity string, cred domain.Credential) (domain.Session, error) {
	profile, err := m.verifier.VerifyProfile(ctx, cred.Token)
	if err != nil {
		// a session the backend will not honor is useless, force sign-out
		if revokeErr := m.provider.SignOut(ctx, cred.Token); revokeErr != nil {
			log.Printf("[WARN] can't revoke unverified credential: %v", revokeErr)
		}
		return m.fail(att, domain.WrapError(domain.ErrBackendVerification, err))
	}
	if profile.Identity != "" {
		identity = profile.Identity
	}

	m.mu.Lock()
	if att != m.attempt {
		sess := m.sess
		m.mu.Unlock()
		return sess, ErrSuperseded
	}
	m.sess = domain.Session{Identity: identity, Credential: cred, State: domain.StateSignedIn}
	sess := m.sess
	m.mu.Unlock()

	m.notify()
	m.persist(ctx, cred, identity)
	log.Printf("[INFO] signed in as %s", identity)
	return sess, nil
}

// fail resolves an attempt as signed_out; the error is delivered to the
// caller once and is not part of the session state
func (m *Manager) fail(att uint64, err error) (domain.Session, error) {
	m.mu.Lock()
	if att != m.attempt {
		sess := m.sess
		m.mu.Unlock()
		return sess, ErrSuperseded
	}
	m.sess = domain.Session{State: domain.StateSignedOut}
	sess := m.sess
	m.mu.Unlock()

	m.notify()
	return sess, err
}

// forceSignOut is the unrecoverable-refresh path: local teardown only
func (m *Manager) forceSignOut(ctx context.Context, reason string) {
	log.Printf("[INFO] forcing sign-out: %s", reason)
	m.mu.Lock()
	m.attempt++
	m.sess = domain.Session{State: domain.StateSignedOut}
	m.mu.Unlock()

	m.clearStore(ctx)
	m.notify()
}

func (m *Manager) persist(ctx context.Context, cred domain.Credential, identity string) {
	err := m.store.SaveSession(ctx, store.PersistedSession{
		Token:        cred.Token,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    cred.ExpiresAt,
		Identity:     identity,
	})
	if err != nil {
		log.Printf("[WARN] can't persist session: %v", err)
	}
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.ClearSession(ctx); err != nil {
		log.Printf("[WARN] can't clear persisted session: %v", err)
	}
}

// notify delivers the current snapshot to all listeners before the mutating
// call returns. Dispatch order across listeners is unspecified.
func (m *Manager) notify() {
	m.mu.Lock()
	sess := m.sess
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(sess)
	}
}

// validateCredentials enforces the client-side policy: an email-like
// identity and a secret of at least 6 characters
func validateCredentials(identity, secret string) error {
	if !emailRe.MatchString(identity) {
		return domain.NewError(domain.ErrInvalidCredential, "identity must be an email address")
	}
	if len(secret) < minSecretLen {
		return domain.NewError(domain.ErrWeakSecret, fmt.Sprintf("secret must be at least %d characters", minSecretLen))
	}
	return nil
}
