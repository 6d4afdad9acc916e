// Package authflow drives the authentication state machine: password
// login, single- and two-step registration, magic-link login, and the
// OAuth 2.0 PKCE callback, against the identity API.
//
// One Controller instance owns the state; nothing reads ambient globals.
// The presenter (CLI, web view, test double) observes transitions through
// the Presenter interface and drives the machine only via the public
// operations.
package authflow

import (
	"context"

	"github.com/teamgensourei/boundary/internal/models"
)

// State is the position of the auth flow machine. Exactly one is active
// at a time.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingEmailCode
	StateAwaitingOAuthCallback
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingEmailCode:
		return "awaiting-email-code"
	case StateAwaitingOAuthCallback:
		return "awaiting-oauth-callback"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is what a presenter sees on every transition: the state plus
// whichever payload belongs to it. Session is set only when Authenticated,
// Pending only when AwaitingEmailCode.
type Snapshot struct {
	State   State
	Session *models.Session
	Pending *models.PendingRegistration
}

// Presenter receives state-change notifications and neutral user-facing
// notices. It must never mutate controller state directly; it reacts, and
// calls the public operations when the user acts.
type Presenter interface {
	StateChanged(ctx context.Context, snap Snapshot)
	Notice(ctx context.Context, message string)
}

// Capabilities selects which optional flows this deployment enables. The
// same controller serves all combinations; disabled flows fail with a
// validation error instead of forking the logic per surface.
type Capabilities struct {
	MagicLink bool
	OAuth     bool
	EmailCode bool
}

// OAuthConfig carries what StartOAuth needs to build the authorize URL
// and the PKCE material.
type OAuthConfig struct {
	ClientID     string
	RedirectURI  string
	AuthorizeURL string
	Scopes       []string

	// Zero values fall back to the pkce package defaults.
	VerifierLength int
	StateLength    int
}
