package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/teamgensourei/boundary/internal/flagx"
	"github.com/teamgensourei/boundary/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. Pointer fields distinguish "absent" from
// zero so the file only overrides what it names.
type jsonConfig struct {
	APIBaseURL   *string         `json:"api_base_url"`
	CredentialDB *string         `json:"credential_db"`
	HTTPTimeout  *timex.Duration `json:"http_timeout"`

	OAuthClientID      *string  `json:"oauth_client_id"`
	OAuthRedirectURI   *string  `json:"oauth_redirect_uri"`
	OAuthAuthorizeURL  *string  `json:"oauth_authorize_url"`
	OAuthScopes        []string `json:"oauth_scopes"`
	PKCEVerifierLength *int     `json:"pkce_verifier_length"`
	OAuthStateLength   *int     `json:"oauth_state_length"`

	EnableMagicLink *bool `json:"enable_magic_link"`
	EnableOAuth     *bool `json:"enable_oauth"`
	EnableEmailCode *bool `json:"enable_email_code"`
}

// parseJSON overlays cfg with values from the JSON file named by the -c or
// -config flag. No flag, no file, no overlay.
func parseJSON(cfg *Config) error {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", jsonConfigFile, err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.CredentialDB != nil {
		cfg.CredentialDB = *jc.CredentialDB
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
	if jc.OAuthClientID != nil {
		cfg.OAuthClientID = *jc.OAuthClientID
	}
	if jc.OAuthRedirectURI != nil {
		cfg.OAuthRedirectURI = *jc.OAuthRedirectURI
	}
	if jc.OAuthAuthorizeURL != nil {
		cfg.OAuthAuthorizeURL = *jc.OAuthAuthorizeURL
	}
	if jc.OAuthScopes != nil {
		cfg.OAuthScopes = jc.OAuthScopes
	}
	if jc.PKCEVerifierLength != nil {
		cfg.PKCEVerifierLength = *jc.PKCEVerifierLength
	}
	if jc.OAuthStateLength != nil {
		cfg.OAuthStateLength = *jc.OAuthStateLength
	}
	if jc.EnableMagicLink != nil {
		cfg.EnableMagicLink = *jc.EnableMagicLink
	}
	if jc.EnableOAuth != nil {
		cfg.EnableOAuth = *jc.EnableOAuth
	}
	if jc.EnableEmailCode != nil {
		cfg.EnableEmailCode = *jc.EnableEmailCode
	}
	return nil
}
