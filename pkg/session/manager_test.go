package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedcli/pkg/domain"
	"github.com/feedbridge/feedcli/pkg/session/mocks"
	"github.com/feedbridge/feedcli/pkg/store"
)

// testMocks bundles the manager's collaborators with workable defaults:
// a provider that mints tokens, a verifier that accepts them and an
// in-memory store.
type testMocks struct {
	provider  *mocks.IdentityProviderMock
	federated *mocks.FederatedProviderMock
	verifier  *mocks.ProfileVerifierMock
	store     *mocks.CredentialStoreMock

	saved *store.PersistedSession // what the store currently holds
}

func newTestMocks() *testMocks {
	tm := &testMocks{}
	tm.provider = &mocks.IdentityProviderMock{
		SignUpFunc: func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{Token: "tkn-" + identity}, nil
		},
		SignInFunc: func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{Token: "tkn-" + identity}, nil
		},
		RefreshFunc: func(ctx context.Context, refreshToken string) (domain.Credential, error) {
			return domain.Credential{Token: "tkn-refreshed", RefreshToken: refreshToken}, nil
		},
		SignOutFunc: func(ctx context.Context, token string) error { return nil },
	}
	tm.federated = &mocks.FederatedProviderMock{
		SignInFunc: func(ctx context.Context) (domain.Credential, string, error) {
			return domain.Credential{Token: "tkn-fed"}, "fed@example.com", nil
		},
	}
	tm.verifier = &mocks.ProfileVerifierMock{
		VerifyProfileFunc: func(ctx context.Context, token string) (domain.Profile, error) {
			return domain.Profile{ID: "u1"}, nil
		},
	}
	tm.store = &mocks.CredentialStoreMock{
		SaveSessionFunc: func(ctx context.Context, sess store.PersistedSession) error {
			tm.saved = &sess
			return nil
		},
		LoadSessionFunc: func(ctx context.Context) (store.PersistedSession, error) {
			if tm.saved == nil {
				return store.PersistedSession{}, store.ErrNoSession
			}
			return *tm.saved, nil
		},
		ClearSessionFunc: func(ctx context.Context) error {
			tm.saved = nil
			return nil
		},
	}
	return tm
}

func (tm *testMocks) manager() *Manager {
	return New(tm.provider, tm.federated, tm.verifier, tm.store, 30*time.Second)
}

func TestManager_SignUp(t *testing.T) {
	t.Run("successful sign-up establishes session", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		sess, err := m.SignUp(context.Background(), "new@example.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, domain.StateSignedIn, sess.State)
		assert.Equal(t, "new@example.com", sess.Identity)
		assert.True(t, sess.Credential.Valid())

		require.NotNil(t, tm.saved, "session persisted")
		assert.Equal(t, "tkn-new@example.com", tm.saved.Token)
		assert.Len(t, tm.verifier.VerifyProfileCalls(), 1, "backend profile verified")
	})

	t.Run("secret of 6 chars is the boundary", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		// 5 characters rejected before any network call
		sess, err := m.SignUp(context.Background(), "new@example.com", "abcde")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrWeakSecret))
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.Empty(t, tm.provider.SignUpCalls(), "no network call for a weak secret")
		assert.Nil(t, tm.saved)

		// exactly 6 characters accepted
		sess, err = m.SignUp(context.Background(), "new@example.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, domain.StateSignedIn, sess.State)
	})

	t.Run("malformed identity rejected client-side", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		_, err := m.SignUp(context.Background(), "not-an-email", "abcdef")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidCredential))
		assert.Empty(t, tm.provider.SignUpCalls())
	})

	t.Run("backend verification failure forces sign-out", func(t *testing.T) {
		tm := newTestMocks()
		tm.verifier.VerifyProfileFunc = func(ctx context.Context, token string) (domain.Profile, error) {
			return domain.Profile{}, errors.New("user not found")
		}
		m := tm.manager()

		sess, err := m.SignUp(context.Background(), "new@example.com", "abcdef")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrBackendVerification))
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.Nil(t, tm.saved, "no credential persisted")
		assert.Len(t, tm.provider.SignOutCalls(), 1, "unverified credential revoked")
	})
}

func TestManager_SignIn(t *testing.T) {
	t.Run("invalid secret resolves to signed_out, nothing persisted", func(t *testing.T) {
		tm := newTestMocks()
		tm.provider.SignInFunc = func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{}, domain.NewError(domain.ErrInvalidCredential, "wrong password")
		}
		m := tm.manager()

		sess, err := m.SignIn(context.Background(), "user@example.com", "wrong-secret")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidCredential))
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.False(t, sess.Credential.Valid())
		assert.Nil(t, tm.saved)
	})

	t.Run("identity from backend profile wins", func(t *testing.T) {
		tm := newTestMocks()
		tm.verifier.VerifyProfileFunc = func(ctx context.Context, token string) (domain.Profile, error) {
			return domain.Profile{ID: "u1", Identity: "canonical@example.com"}, nil
		}
		m := tm.manager()

		sess, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, "canonical@example.com", sess.Identity)
	})

	t.Run("superseded attempt is discarded", func(t *testing.T) {
		tm := newTestMocks()
		block := make(chan struct{})
		calls := 0
		tm.provider.SignInFunc = func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			calls++
			if calls == 1 { // first attempt stalls at the network boundary
				<-block
			}
			return domain.Credential{Token: "tkn-" + identity}, nil
		}
		m := tm.manager()

		type result struct {
			sess domain.Session
			err  error
		}
		first := make(chan result, 1)
		go func() {
			sess, err := m.SignIn(context.Background(), "slow@example.com", "abcdef")
			first <- result{sess, err}
		}()

		// wait for the first attempt to reach the provider
		require.Eventually(t, func() bool { return len(tm.provider.SignInCalls()) == 1 }, time.Second, time.Millisecond)

		// second attempt completes while the first is in flight
		sess, err := m.SignIn(context.Background(), "fast@example.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, "fast@example.com", sess.Identity)

		// first attempt resolves late and must not overwrite the newer state
		close(block)
		res := <-first
		assert.ErrorIs(t, res.err, ErrSuperseded)

		current := m.Current()
		assert.Equal(t, domain.StateSignedIn, current.State)
		assert.Equal(t, "fast@example.com", current.Identity)
		assert.Equal(t, "tkn-fast@example.com", current.Credential.Token)
	})
}

func TestManager_SignInFederated(t *testing.T) {
	t.Run("successful flow", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		sess, err := m.SignInFederated(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.StateSignedIn, sess.State)
		assert.Equal(t, "fed@example.com", sess.Identity)
	})

	t.Run("cancellation is a no-op outcome", func(t *testing.T) {
		tm := newTestMocks()
		tm.federated.SignInFunc = func(ctx context.Context) (domain.Credential, string, error) {
			return domain.Credential{}, "", domain.NewError(domain.ErrUserCancelled, "sign-in was cancelled")
		}
		m := tm.manager()

		sess, err := m.SignInFederated(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrUserCancelled))
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.Nil(t, tm.saved)
	})
}

func TestManager_SignOut(t *testing.T) {
	t.Run("clears state and storage", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)
		require.NotNil(t, tm.saved)

		m.SignOut(context.Background())
		assert.Equal(t, domain.StateSignedOut, m.Current().State)
		assert.Nil(t, tm.saved, "persisted credential removed")
		assert.Len(t, tm.provider.SignOutCalls(), 1)
	})

	t.Run("always succeeds locally even if remote invalidation fails", func(t *testing.T) {
		tm := newTestMocks()
		tm.provider.SignOutFunc = func(ctx context.Context, token string) error {
			return errors.New("provider unreachable")
		}
		m := tm.manager()

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)

		m.SignOut(context.Background())
		assert.Equal(t, domain.StateSignedOut, m.Current().State)
		assert.Nil(t, tm.saved)
	})

	t.Run("sign-in then sign-out leaves empty storage regardless of activity", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		for i := 0; i < 3; i++ {
			_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
			require.NoError(t, err)
			_, err = m.CurrentCredential(context.Background())
			require.NoError(t, err)
			m.SignOut(context.Background())
		}
		assert.Equal(t, domain.StateSignedOut, m.Current().State)
		assert.Nil(t, tm.saved)
	})
}

func TestManager_CurrentCredential(t *testing.T) {
	t.Run("fails without a session", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		_, err := m.CurrentCredential(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrNotAuthenticated))
	})

	t.Run("idempotent without intervening transitions", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)

		first, err := m.CurrentCredential(context.Background())
		require.NoError(t, err)
		second, err := m.CurrentCredential(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Empty(t, tm.provider.RefreshCalls(), "no refresh for a non-expiring token")
	})

	t.Run("expiring credential refreshed transparently", func(t *testing.T) {
		tm := newTestMocks()
		tm.provider.SignInFunc = func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{Token: "tkn-old", RefreshToken: "rt-1", ExpiresAt: time.Now().Add(5 * time.Second)}, nil
		}
		m := tm.manager()

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)

		cred, err := m.CurrentCredential(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tkn-refreshed", cred.Token)
		assert.Equal(t, "rt-1", cred.RefreshToken, "refresh token carried over")
		assert.Equal(t, domain.StateSignedIn, m.Current().State)
		require.NotNil(t, tm.saved)
		assert.Equal(t, "tkn-refreshed", tm.saved.Token, "refreshed credential persisted")
	})

	t.Run("refresh failure forces signed_out", func(t *testing.T) {
		tm := newTestMocks()
		tm.provider.SignInFunc = func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{Token: "tkn-old", RefreshToken: "rt-1", ExpiresAt: time.Now().Add(5 * time.Second)}, nil
		}
		tm.provider.RefreshFunc = func(ctx context.Context, refreshToken string) (domain.Credential, error) {
			return domain.Credential{}, errors.New("refresh token revoked")
		}
		m := tm.manager()

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)

		_, err = m.CurrentCredential(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrNotAuthenticated))
		assert.Equal(t, domain.StateSignedOut, m.Current().State, "stale credential never returned")
		assert.Nil(t, tm.saved)
	})
}

func TestManager_OnStateChange(t *testing.T) {
	t.Run("listeners see each transition before the call returns", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		var states []domain.SessionState
		unsubscribe := m.OnStateChange(func(sess domain.Session) {
			states = append(states, sess.State)
		})

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, []domain.SessionState{domain.StateAuthenticating, domain.StateSignedIn}, states)

		m.SignOut(context.Background())
		assert.Equal(t, domain.StateSignedOut, states[len(states)-1])

		// unsubscribed listeners stop receiving
		count := len(states)
		unsubscribe()
		_, err = m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.NoError(t, err)
		assert.Len(t, states, count)
	})

	t.Run("failed attempt resolves to signed_out, not a lingering error state", func(t *testing.T) {
		tm := newTestMocks()
		tm.provider.SignInFunc = func(ctx context.Context, identity, secret string) (domain.Credential, error) {
			return domain.Credential{}, domain.NewError(domain.ErrInvalidCredential, "nope")
		}
		m := tm.manager()

		var states []domain.SessionState
		m.OnStateChange(func(sess domain.Session) { states = append(states, sess.State) })

		_, err := m.SignIn(context.Background(), "user@example.com", "abcdef")
		require.Error(t, err)
		assert.Equal(t, []domain.SessionState{domain.StateAuthenticating, domain.StateSignedOut}, states)
	})
}

func TestManager_Restore(t *testing.T) {
	t.Run("nothing persisted stays signed_out", func(t *testing.T) {
		tm := newTestMocks()
		m := tm.manager()

		sess := m.Restore(context.Background())
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.Empty(t, tm.verifier.VerifyProfileCalls())
	})

	t.Run("valid stored credential short-circuits re-authentication", func(t *testing.T) {
		tm := newTestMocks()
		tm.saved = &store.PersistedSession{Token: "tkn-stored", Identity: "user@example.com"}
		m := tm.manager()

		var states []domain.SessionState
		m.OnStateChange(func(sess domain.Session) { states = append(states, sess.State) })

		sess := m.Restore(context.Background())
		assert.Equal(t, domain.StateSignedIn, sess.State)
		assert.Equal(t, "user@example.com", sess.Identity)
		assert.Equal(t, "tkn-stored", sess.Credential.Token)
		assert.Equal(t, []domain.SessionState{domain.StateAuthenticating, domain.StateSignedIn}, states)
	})

	t.Run("expired stored credential refreshed first", func(t *testing.T) {
		tm := newTestMocks()
		tm.saved = &store.PersistedSession{
			Token:        "tkn-expired",
			RefreshToken: "rt-1",
			ExpiresAt:    time.Now().Add(-time.Hour),
			Identity:     "user@example.com",
		}
		m := tm.manager()

		sess := m.Restore(context.Background())
		assert.Equal(t, domain.StateSignedIn, sess.State)
		assert.Equal(t, "tkn-refreshed", sess.Credential.Token)
		assert.Len(t, tm.provider.RefreshCalls(), 1)
	})

	t.Run("rejected stored credential cleared", func(t *testing.T) {
		tm := newTestMocks()
		tm.saved = &store.PersistedSession{Token: "tkn-revoked", Identity: "user@example.com"}
		tm.verifier.VerifyProfileFunc = func(ctx context.Context, token string) (domain.Profile, error) {
			return domain.Profile{}, errors.New("token rejected")
		}
		m := tm.manager()

		sess := m.Restore(context.Background())
		assert.Equal(t, domain.StateSignedOut, sess.State)
		assert.Nil(t, tm.saved, "stale credential removed from storage")
	})
}
