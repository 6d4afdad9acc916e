// Package credstore persists the authentication artifacts of the client:
// the durable session (bearer token + user profile) and the short-lived
// PKCE verifier/state pair scoped to one OAuth round trip.
//
// The two live in separate tables because their lifetimes differ: the
// session survives restarts until logout, the PKCE pair must not outlive
// its callback. Token and profile are written in one transaction so a
// partial session is never observable; a corrupt row (one half present
// without the other) is self-healed by clearing on load.
package credstore

import (
	"context"

	"github.com/teamgensourei/boundary/internal/models"
)

// Store is the persistence contract consumed by the flow controller and
// the bootstrapper.
type Store interface {
	// SaveSession writes token and profile atomically.
	SaveSession(ctx context.Context, session *models.Session) error

	// LoadSession returns the stored session, or (nil, nil) when there is
	// none. Partial or corrupt data is cleared and reported as none.
	LoadSession(ctx context.Context) (*models.Session, error)

	// ClearSession removes the stored session.
	ClearSession(ctx context.Context) error

	// SavePKCE stores the verifier/state pair for the pending OAuth flow.
	SavePKCE(ctx context.Context, flow *models.PKCESession) error

	// LoadPKCE returns the pending pair, or (nil, nil) when there is none.
	LoadPKCE(ctx context.Context) (*models.PKCESession, error)

	// ClearPKCE removes the pending pair. Called unconditionally after the
	// callback is handled, whatever the outcome.
	ClearPKCE(ctx context.Context) error
}
