// Package api wraps the remote identity endpoints in a typed client.
//
// Every method returns either a payload or an *Error whose Kind tells the
// caller how to react: KindNetwork (retryable transport trouble), KindAPI
// (server rejected the request, message passed through), KindUnauthorized
// (the session token is dead). Authenticated operations attach the bearer
// token; an authentication-rejected status always maps to KindUnauthorized,
// never to a generic network failure.
package api

import (
	"context"

	"github.com/teamgensourei/boundary/internal/models"
)

// AuthResult is the payload of every call that establishes a session.
type AuthResult struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user"`
}

// RegisterResult extends AuthResult with the server's signal that the
// account was created but still needs email verification; in that case
// Token is empty and no session exists yet.
type RegisterResult struct {
	AuthResult
	RequiresVerification bool `json:"requiresVerification"`
}

// Client is the transport-agnostic contract with the identity API,
// one method per remote operation.
type Client interface {
	// Login exchanges identifier+password for a session.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)

	// RegisterDirect creates an account in a single step.
	RegisterDirect(ctx context.Context, identifier, email, password string) (*RegisterResult, error)

	// RegisterSendCode starts the two-step registration by mailing a code.
	RegisterSendCode(ctx context.Context, identifier, email string) error

	// RegisterVerifyCode completes the two-step registration.
	RegisterVerifyCode(ctx context.Context, email, code, password string) (*AuthResult, error)

	// RequestMagicLink asks the server to email a single-use login link.
	// The returned message, when non-empty, comes from the server.
	RequestMagicLink(ctx context.Context, email string) (string, error)

	// ConsumeMagicLink redeems a magic-link token for a session.
	ConsumeMagicLink(ctx context.Context, token string) (*AuthResult, error)

	// VerifyEmailToken redeems an email-verification token for a session.
	VerifyEmailToken(ctx context.Context, token string) (*AuthResult, error)

	// ExchangeOAuthCode trades the OAuth authorization code plus the PKCE
	// verifier for a session.
	ExchangeOAuthCode(ctx context.Context, code, verifier string) (*AuthResult, error)

	// Logout invalidates the session server-side. Bearer-authenticated.
	Logout(ctx context.Context, token string) error

	// Close releases transport resources.
	Close() error
}
