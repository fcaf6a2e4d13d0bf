package server

import (
	"testing"

	"echodrop/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	userID, token := signUp(t, srv, app, "Poster1")

	post := createTestPost(t, app, token, 5400)

	assert.Equal(t, userID, post.UserID)
	// 5400ms floors to 5 whole seconds.
	assert.Equal(t, 5, post.Duration)
	assert.Contains(t, post.AudioURL, "/media/posts/"+userID+"/")
	require.NotNil(t, post.ReactionCounts)
	assert.Equal(t, 0, post.ReactionCounts[models.ReactionLike])
}

func TestCreatePost_RequiresAudio(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	_, token := signUp(t, srv, app, "Poster2")

	resp := doJSON(t, app, "POST", "/api/posts", token, fiber.Map{"duration_ms": 1000})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, app := newTestServer(t)

	resp := doAudioUpload(t, app, "/api/posts", "", 1000)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetFeed(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	_, token := signUp(t, srv, app, "Poster3")

	first := createTestPost(t, app, token, 1000)
	second := createTestPost(t, app, token, 2000)

	resp := doJSON(t, app, "GET", "/api/posts", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []*models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 2)

	// Newest first.
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "Poster3", posts[0].User.Username)
}

func TestGetPost_NotFound(t *testing.T) {
	t.Parallel()

	_, app := newTestServer(t)

	resp := doJSON(t, app, "GET", "/api/posts/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	_, token := signUp(t, srv, app, "Poster4")
	_, otherToken := signUp(t, srv, app, "Intruder1")

	post := createTestPost(t, app, token, 3000)

	// Only the author can delete.
	resp := doJSON(t, app, "DELETE", "/api/posts/"+post.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/posts/"+post.ID, token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/posts/"+post.ID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetUserPosts(t *testing.T) {
	t.Parallel()

	srv, app := newTestServer(t)
	userID, token := signUp(t, srv, app, "Poster5")
	_, otherToken := signUp(t, srv, app, "Poster6")

	createTestPost(t, app, token, 1000)
	createTestPost(t, app, otherToken, 1000)

	resp := doJSON(t, app, "GET", "/api/users/"+userID+"/posts", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []*models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, userID, posts[0].UserID)
}
