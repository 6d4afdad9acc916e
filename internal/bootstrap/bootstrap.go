// Package bootstrap decides the initial auth state at startup: resume a
// pending flow carried in an incoming URL, restore a stored session, or
// start unauthenticated.
package bootstrap

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/teamgensourei/boundary/internal/credstore"
	"github.com/teamgensourei/boundary/internal/logging"
	"github.com/teamgensourei/boundary/internal/models"
)

// Flows is the subset of the auth controller the bootstrapper drives.
type Flows interface {
	CompleteOAuth(ctx context.Context, code, state, providerErr string) error
	ConsumeMagicLink(ctx context.Context, token string) error
	ConsumeEmailToken(ctx context.Context, token string) error
	Restore(ctx context.Context, session *models.Session)
}

// Bootstrapper inspects an incoming URL and the credential store and
// dispatches exactly one startup action.
type Bootstrapper struct {
	flows Flows
	store credstore.Store
	log   logging.Logger
}

func New(flows Flows, store credstore.Store, log logging.Logger) *Bootstrapper {
	return &Bootstrapper{flows: flows, store: store, log: log}
}

// Run performs the startup decision. rawURL is the link the user arrived
// with (an OAuth callback or an emailed link), or empty when the program
// starts bare. URL-borne flows take precedence over a stored session; with
// neither present the state simply stays unauthenticated.
func (b *Bootstrapper) Run(ctx context.Context, rawURL string) error {
	if rawURL != "" {
		handled, err := b.dispatchURL(ctx, rawURL)
		if handled || err != nil {
			return err
		}
	}
	return b.restoreStored(ctx)
}

// dispatchURL recognizes the pending-flow parameter sets: an OAuth callback
// (code/state or a provider error), a magic-login token, or an email
// verification token. Reports whether the URL claimed the startup.
func (b *Bootstrapper) dispatchURL(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parsing startup url: %w", err)
	}
	q := u.Query()

	if q.Get("code") != "" || q.Get("error") != "" {
		b.log.Info(ctx, "resuming oauth callback from url")
		return true, b.flows.CompleteOAuth(ctx, q.Get("code"), q.Get("state"), q.Get("error"))
	}

	if token := q.Get("token"); token != "" {
		switch q.Get("page") {
		case "verify":
			b.log.Info(ctx, "consuming email verification token from url")
			return true, b.flows.ConsumeEmailToken(ctx, token)
		case "magic-login":
			b.log.Info(ctx, "consuming magic login token from url")
			return true, b.flows.ConsumeMagicLink(ctx, token)
		}
	}

	return false, nil
}

// restoreStored loads the persisted session, if any, and adopts it without
// server-side validation. A revoked token is corrected later by the
// Unauthorized transition.
func (b *Bootstrapper) restoreStored(ctx context.Context) error {
	session, err := b.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("loading stored session: %w", err)
	}
	if session == nil {
		return nil
	}

	if exp, ok := tokenExpiry(session.Token); ok && exp.Before(time.Now()) {
		b.log.Info(ctx, "stored session token is past its expiry, restoring anyway", "expiredAt", exp)
	}

	b.flows.Restore(ctx, session)
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// server owns token integrity; this is only a log hint. For opaque
// non-JWT tokens it reports no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
