package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"echodrop/internal/config"
	"echodrop/internal/models"
	"echodrop/internal/realtime"
	"echodrop/internal/storage"
	"echodrop/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-at-least-32-chars-long!!"

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      testJWTSecret,
		Env:            "test",
		StorageBackend: "local",
		StorageDir:     t.TempDir(),
		PublicBaseURL:  "http://localhost:8080",
		MaxUploadMB:    10,
		AvatarBaseURL:  "https://api.dicebear.com/7.x/avataaars/png",
	}

	db := testutil.OpenTestDB(t)
	store, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	require.NoError(t, err)

	srv, err := NewServerWithDeps(cfg, db, nil, store, realtime.NewMemoryBus())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.HTTPStatus(err), err)
		},
	})
	srv.SetupRoutes(app)

	return srv, app
}

// signUp mints an anonymous identity and creates a profile for it.
func signUp(t *testing.T, srv *Server, app *fiber.App, username string) (userID, token string) {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/auth/anonymous", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var creds struct {
		UserID string `json:"user_id"`
		Token  string `json:"token"`
	}
	decodeBody(t, resp, &creds)

	resp = doJSON(t, app, "POST", "/api/users", creds.Token, fiber.Map{"username": username})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	return creds.UserID, creds.Token
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// doAudioUpload posts a multipart form with a small wav payload.
func doAudioUpload(t *testing.T, app *fiber.App, target, token string, millis int64) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF fake wav payload"))
	require.NoError(t, err)

	require.NoError(t, w.WriteField("duration_ms", strconv.FormatInt(millis, 10)))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createTestPost(t *testing.T, app *fiber.App, token string, millis int64) *models.Post {
	t.Helper()

	resp := doAudioUpload(t, app, "/api/posts", token, millis)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	return &post
}
