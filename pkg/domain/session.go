package domain

import "time"

// SessionState describes where the client is in the authentication lifecycle
type SessionState string

// session states
const (
	StateSignedOut      SessionState = "signed_out"
	StateAuthenticating SessionState = "authenticating"
	StateSignedIn       SessionState = "signed_in"
)

// Credential is the bearer token proving the session to the backend.
// RefreshToken and ExpiresAt are optional; a zero ExpiresAt means the token
// does not expire as far as the client knows.
type Credential struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// Valid reports whether the credential carries a token
func (c Credential) Valid() bool { return c.Token != "" }

// Expiring reports whether the credential expires within the given skew.
// Credentials without a known expiry never report as expiring.
func (c Credential) Expiring(skew time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(c.ExpiresAt) <= skew
}

// Session is the client-side record of whether, and as whom, the user is
// currently authenticated. The credential is set iff State == StateSignedIn.
type Session struct {
	Identity   string
	Credential Credential
	State      SessionState
}

// SignedIn reports whether the session holds a usable credential
func (s Session) SignedIn() bool { return s.State == StateSignedIn && s.Credential.Valid() }
