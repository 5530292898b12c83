package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerIssueAndVerify(t *testing.T) {
	issuer := newTokenIssuer("secret", time.Minute)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	username, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := newTokenIssuer("secret", -time.Minute)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	issuer := newTokenIssuer("secret", time.Minute)
	other := newTokenIssuer("different", time.Minute)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := newTokenIssuer("secret", time.Minute)

	_, err := issuer.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
