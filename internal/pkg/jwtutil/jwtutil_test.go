package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", time.Hour, "ws-42")
	require.NoError(t, err)

	claims, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "ws-42", claims.WorkspaceID)
	assert.Equal(t, "ws-42", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := GenerateToken("s3cret", time.Hour, "ws-42")
	require.NoError(t, err)
	expired, err := GenerateToken("s3cret", -time.Minute, "ws-42")
	require.NoError(t, err)
	noWorkspace, err := GenerateToken("s3cret", time.Hour, "")
	require.NoError(t, err)

	cases := map[string]struct{ secret, token string }{
		"wrong secret": {"other", valid},
		"expired":      {"s3cret", expired},
		"garbage":      {"s3cret", "not.a.token"},
		"no workspace": {"s3cret", noWorkspace},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateTokenNeedsSecret(t *testing.T) {
	_, err := GenerateToken("", time.Hour, "ws-42")
	assert.Error(t, err)
}
