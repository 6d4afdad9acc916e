package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw environment values. Pointer fields distinguish unset
// variables from explicit zeroes, matching the JSON overlay behavior.
type envConfig struct {
	APIBaseURL   *string        `env:"BOUNDARY_API_BASE_URL"`
	CredentialDB *string        `env:"BOUNDARY_CREDENTIAL_DB"`
	HTTPTimeout  *time.Duration `env:"BOUNDARY_HTTP_TIMEOUT"`

	OAuthClientID      *string  `env:"BOUNDARY_OAUTH_CLIENT_ID"`
	OAuthRedirectURI   *string  `env:"BOUNDARY_OAUTH_REDIRECT_URI"`
	OAuthAuthorizeURL  *string  `env:"BOUNDARY_OAUTH_AUTHORIZE_URL"`
	OAuthScopes        []string `env:"BOUNDARY_OAUTH_SCOPES" envSeparator:","`
	PKCEVerifierLength *int     `env:"BOUNDARY_PKCE_VERIFIER_LENGTH"`
	OAuthStateLength   *int     `env:"BOUNDARY_OAUTH_STATE_LENGTH"`

	EnableMagicLink *bool `env:"BOUNDARY_ENABLE_MAGIC_LINK"`
	EnableOAuth     *bool `env:"BOUNDARY_ENABLE_OAUTH"`
	EnableEmailCode *bool `env:"BOUNDARY_ENABLE_EMAIL_CODE"`
}

// parseEnv overlays cfg with values from BOUNDARY_* environment variables.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if ec.APIBaseURL != nil {
		cfg.APIBaseURL = *ec.APIBaseURL
	}
	if ec.CredentialDB != nil {
		cfg.CredentialDB = *ec.CredentialDB
	}
	if ec.HTTPTimeout != nil {
		cfg.HTTPTimeout = *ec.HTTPTimeout
	}
	if ec.OAuthClientID != nil {
		cfg.OAuthClientID = *ec.OAuthClientID
	}
	if ec.OAuthRedirectURI != nil {
		cfg.OAuthRedirectURI = *ec.OAuthRedirectURI
	}
	if ec.OAuthAuthorizeURL != nil {
		cfg.OAuthAuthorizeURL = *ec.OAuthAuthorizeURL
	}
	if ec.OAuthScopes != nil {
		cfg.OAuthScopes = ec.OAuthScopes
	}
	if ec.PKCEVerifierLength != nil {
		cfg.PKCEVerifierLength = *ec.PKCEVerifierLength
	}
	if ec.OAuthStateLength != nil {
		cfg.OAuthStateLength = *ec.OAuthStateLength
	}
	if ec.EnableMagicLink != nil {
		cfg.EnableMagicLink = *ec.EnableMagicLink
	}
	if ec.EnableOAuth != nil {
		cfg.EnableOAuth = *ec.EnableOAuth
	}
	if ec.EnableEmailCode != nil {
		cfg.EnableEmailCode = *ec.EnableEmailCode
	}
	return nil
}
