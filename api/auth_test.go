package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanekop/cashflow-kos-alhafidz/api"
)

func TestLoginIssuesVerifiableToken(t *testing.T) {
	auth := api.NewAuthenticator("pw", "secret", time.Hour)

	token, expires, err := auth.Login("pw")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)
	assert.NoError(t, auth.Verify(token))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := api.NewAuthenticator("pw", "secret", time.Hour)

	_, _, err := auth.Login("other")
	assert.Error(t, err)
}

func TestEmptyPasswordDisablesAdmin(t *testing.T) {
	// No ADMIN_PASSWORD configured: even the empty string must not log in.
	auth := api.NewAuthenticator("", "secret", time.Hour)

	_, _, err := auth.Login("")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := api.NewAuthenticator("pw", "secret-a", time.Hour)
	verifier := api.NewAuthenticator("pw", "secret-b", time.Hour)

	token, _, err := issuer.Login("pw")
	require.NoError(t, err)
	assert.Error(t, verifier.Verify(token))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	// A zero TTL makes the token expired the moment it is issued.
	auth := api.NewAuthenticator("pw", "secret", -time.Minute)

	token, _, err := auth.Login("pw")
	require.NoError(t, err)
	assert.Error(t, auth.Verify(token))
}
