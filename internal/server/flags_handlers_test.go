package server

import (
	"testing"

	"echodrop/internal/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlags(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	srv.flags = featureflags.NewManager("voice_comments=on,legacy_feed=off")

	resp := doJSON(t, app, "GET", "/api/flags", "", nil)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Flags map[string]bool `json:"flags"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, map[string]bool{
		"voice_comments": true,
		"legacy_feed":    false,
	}, body.Flags)
}

func TestGetFeatureFlags_PartialRolloutPerUser(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	srv.flags = featureflags.NewManager("hq_audio=50%")

	_, token := signUp(t, srv, app, "FlagUser1")

	resp := doJSON(t, app, "GET", "/api/flags", token, nil)
	require.Equal(t, 200, resp.StatusCode)

	var first struct {
		Flags map[string]bool `json:"flags"`
	}
	decodeBody(t, resp, &first)

	// Same user gets the same bucket on every request.
	resp = doJSON(t, app, "GET", "/api/flags", token, nil)
	var second struct {
		Flags map[string]bool `json:"flags"`
	}
	decodeBody(t, resp, &second)
	assert.Equal(t, first.Flags, second.Flags)
}
