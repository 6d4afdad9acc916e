package pkce

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifier_LengthBounds(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"below minimum", 42, true},
		{"minimum", 43, false},
		{"default", DefaultVerifierLength, false},
		{"maximum", 128, false},
		{"above maximum", 129, true},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := GenerateVerifier(tt.length)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, v, tt.length)
		})
	}
}

func TestGenerateVerifier_Alphabet(t *testing.T) {
	v, err := GenerateVerifier(128)
	require.NoError(t, err)
	for _, r := range v {
		assert.Contains(t, unreserved, string(r))
	}
}

func TestGenerateVerifier_NoCollision(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		v, err := GenerateVerifier(43)
		require.NoError(t, err)
		_, dup := seen[v]
		require.False(t, dup, "verifier collision after %d draws", i)
		seen[v] = struct{}{}
	}
}

func TestGenerateState(t *testing.T) {
	s, err := GenerateState(DefaultStateLength)
	require.NoError(t, err)
	assert.Len(t, s, DefaultStateLength)

	s2, err := GenerateState(DefaultStateLength)
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)

	_, err = GenerateState(0)
	require.Error(t, err)
}

func TestDeriveChallenge_ReferenceVector(t *testing.T) {
	// SHA-256/base64url of the verifier bytes, computed independently.
	const verifier = "dGVzdC12ZXJpZmllci1zdHJpbmc"
	const want = "uQc6SJWhoMhoylB25cmDuxvollPuHuZJpbddw9qao5s"
	assert.Equal(t, want, DeriveChallenge(verifier))
}

func TestDeriveChallenge_Deterministic(t *testing.T) {
	v, err := GenerateVerifier(64)
	require.NoError(t, err)
	assert.Equal(t, DeriveChallenge(v), DeriveChallenge(v))
}

func TestDeriveChallenge_Base64URL(t *testing.T) {
	c := DeriveChallenge("any-verifier-at-all")
	assert.False(t, strings.ContainsAny(c, "+/="), "challenge %q must be unpadded base64url", c)
	// 32 digest bytes encode to 43 characters without padding.
	assert.Len(t, c, 43)
}
