package config

import (
	"fmt"
	"time"

	"github.com/teamgensourei/boundary/internal/pkce"
)

// Config holds runtime settings for the Boundary console client.
//
// Fields:
//   - APIBaseURL: base URL of the identity API, no trailing slash.
//   - CredentialDB: path or DSN of the local SQLite credential store.
//   - HTTPTimeout: per-request timeout for identity API calls.
//   - OAuth*: authorize-endpoint parameters for the external provider.
//   - Enable*: capability toggles for the optional sign-in flows.
type Config struct {
	APIBaseURL   string
	CredentialDB string
	HTTPTimeout  time.Duration

	OAuthClientID      string
	OAuthRedirectURI   string
	OAuthAuthorizeURL  string
	OAuthScopes        []string
	PKCEVerifierLength int
	OAuthStateLength   int

	EnableMagicLink bool
	EnableOAuth     bool
	EnableEmailCode bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://boundary.example.com"
	c.CredentialDB = "boundary.db"
	c.HTTPTimeout = 15 * time.Second
	c.OAuthAuthorizeURL = "https://x.com/i/oauth2/authorize"
	c.OAuthScopes = []string{"tweet.read", "users.read"}
	c.PKCEVerifierLength = pkce.DefaultVerifierLength
	c.OAuthStateLength = pkce.DefaultStateLength
	c.EnableMagicLink = true
	c.EnableOAuth = true
	c.EnableEmailCode = true
}

// Validate rejects settings the auth core cannot work with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.CredentialDB == "" {
		return fmt.Errorf("credential db path is required")
	}
	if c.PKCEVerifierLength < pkce.MinVerifierLength || c.PKCEVerifierLength > pkce.MaxVerifierLength {
		return fmt.Errorf("pkce verifier length %d outside [%d,%d]",
			c.PKCEVerifierLength, pkce.MinVerifierLength, pkce.MaxVerifierLength)
	}
	if c.EnableOAuth && (c.OAuthClientID == "" || c.OAuthRedirectURI == "") {
		return fmt.Errorf("oauth login enabled but client id or redirect uri is missing")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
