package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/go-tasks/app"
	"github.com/taskhive/go-tasks/config"
	"github.com/taskhive/go-tasks/events"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	phone_number TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL DEFAULT 0,
	complete BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
`

var testUser1 = map[string]any{
	"email":        "abcd@gmail.com",
	"phone_number": "101010",
	"password":     "password",
	"role":         "user",
}

var testUser2 = map[string]any{
	"email":        "efgh@example.com",
	"phone_number": "010101",
	"password":     "anotherpassword",
	"role":         "user",
}

// newTestApp assembles the full application against a fresh in-memory
// database, so every test exercises the real middleware, router, and
// error mapping.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	cfg := config.Config{
		Port:        "0",
		JWTSecret:   "test-signing-secret",
		TokenTTLMin: 30,
		CORSOrigins: "*",
	}

	return app.New(cfg, db, events.NewHub())
}

func doJSON(t *testing.T, fapp *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := fapp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func registerUser(t *testing.T, fapp *fiber.App, user map[string]any) map[string]any {
	t.Helper()

	resp := doJSON(t, fapp, fiber.MethodPost, "/auth/register", user, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	decodeBody(t, resp, &created)
	return created
}

// loginUser posts OAuth2-style form credentials and returns the bearer token.
func loginUser(t *testing.T, fapp *fiber.App, email, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req := httptest.NewRequest(fiber.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := fapp.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["access_token"])
	return body["access_token"]
}

// authToken registers the user (if needed) and logs them in.
func authToken(t *testing.T, fapp *fiber.App, user map[string]any) string {
	t.Helper()
	registerUser(t, fapp, user)
	return loginUser(t, fapp, user["email"].(string), user["password"].(string))
}
