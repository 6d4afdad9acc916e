// Package pkce produces the client-side material for the OAuth 2.0 PKCE
// flow (RFC 7636, S256 method): the code verifier, the derived code
// challenge, and the state token binding a redirect to its callback.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Verifier length bounds fixed by RFC 7636 section 4.1.
const (
	MinVerifierLength = 43
	MaxVerifierLength = 128
)

// Defaults used when no explicit lengths are configured.
const (
	DefaultVerifierLength = 128
	DefaultStateLength    = 32
)

// unreserved is the URI character set a code verifier may be drawn from.
const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// GenerateVerifier returns a cryptographically random code verifier of the
// given length drawn from the unreserved character set. Lengths outside
// [MinVerifierLength, MaxVerifierLength] are a configuration error.
func GenerateVerifier(length int) (string, error) {
	if length < MinVerifierLength || length > MaxVerifierLength {
		return "", fmt.Errorf("pkce: verifier length %d outside [%d, %d]", length, MinVerifierLength, MaxVerifierLength)
	}
	return randomString(length)
}

// GenerateState returns an independent random string used to bind the
// authorize redirect to its callback (CSRF protection). It shares the
// verifier's character set but not its length bounds.
func GenerateState(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("pkce: state length must be positive, got %d", length)
	}
	return randomString(length)
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url without padding over the SHA-256 digest of its bytes.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("pkce: reading random source: %w", err)
	}
	for i, b := range buf {
		buf[i] = unreserved[int(b)%len(unreserved)]
	}
	return string(buf), nil
}
