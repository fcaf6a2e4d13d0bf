package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnonymousSession(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)

	resp := doJSON(t, app, "POST", "/api/auth/anonymous", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var creds struct {
		UserID string `json:"user_id"`
		Token  string `json:"token"`
	}
	decodeBody(t, resp, &creds)

	assert.NotEmpty(t, creds.UserID)
	assert.NotEmpty(t, creds.Token)

	// The token is valid and carries the minted identity.
	subject, err := srv.auth.Validate(creds.Token)
	require.NoError(t, err)
	assert.Equal(t, creds.UserID, subject)
}

func TestCreateAnonymousSession_EachCallMintsFreshIdentity(t *testing.T) {
	t.Parallel()

	_, app := newTestServer(t)

	var first, second struct {
		UserID string `json:"user_id"`
	}
	decodeBody(t, doJSON(t, app, "POST", "/api/auth/anonymous", "", nil), &first)
	decodeBody(t, doJSON(t, app, "POST", "/api/auth/anonymous", "", nil), &second)

	assert.NotEqual(t, first.UserID, second.UserID)
}
