// Package config loads runtime configuration for the Boundary console client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. BOUNDARY_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity API
//	-d string   path of the local credential database
//	-t int      API request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://boundary.example.com",
//	  "credential_db": "boundary.db",
//	  "http_timeout": "15s",
//	  "oauth_client_id": "client-1",
//	  "oauth_redirect_uri": "https://boundary.example.com/",
//	  "oauth_scopes": ["tweet.read", "users.read"],
//	  "enable_magic_link": true
//	}
//
// Primary API
//
//   - type Config                       — runtime settings for the client
//   - func LoadConfig() (*Config, error) — defaults, then JSON, env, flags
//   - func (*Config) LoadDefaults()     — sets sensible defaults
//   - func (*Config) Validate()         — rejects unusable settings
package config
