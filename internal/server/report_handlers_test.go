package server

import (
	"testing"

	"echodrop/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportPost(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	_, token := signUp(t, srv, app, "Reporter1")
	post := createTestPost(t, app, token, 1000)

	resp := doJSON(t, app, "POST", "/api/posts/"+post.ID+"/report", token, fiber.Map{"reason": "offensive content"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var report models.Report
	decodeBody(t, resp, &report)
	assert.Equal(t, post.ID, report.PostID)
	assert.Equal(t, "offensive content", report.Reason)

	// Reporting never touches the post itself.
	resp = doJSON(t, app, "GET", "/api/posts/"+post.ID, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReportPost_ReasonRequired(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	_, token := signUp(t, srv, app, "Reporter2")
	post := createTestPost(t, app, token, 1000)

	resp := doJSON(t, app, "POST", "/api/posts/"+post.ID+"/report", token, fiber.Map{"reason": "   "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
