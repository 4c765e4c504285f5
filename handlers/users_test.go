package handlers_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAdmin = map[string]any{
	"email":        "admin@example.com",
	"phone_number": "999999",
	"password":     "adminpassword",
	"role":         "admin",
}

func TestGetOwnProfile(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)

	resp := doJSON(t, fapp, fiber.MethodGet, "/users/me", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me map[string]any
	decodeBody(t, resp, &me)
	assert.Equal(t, testUser1["email"], me["email"])
	assert.NotContains(t, me, "password_hash")
}

func TestUpdateOwnProfile(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)

	resp := doJSON(t, fapp, fiber.MethodPut, "/users/me", map[string]any{"phone_number": "202020"}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me map[string]any
	decodeBody(t, resp, &me)
	assert.Equal(t, "202020", me["phone_number"])
	// absent field untouched
	assert.Equal(t, testUser1["email"], me["email"])
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)
	registerUser(t, fapp, testUser2)

	resp := doJSON(t, fapp, fiber.MethodPut, "/users/me", map[string]any{"email": testUser2["email"]}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Email already in use", body["detail"])
}

func TestChangePassword(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)
	email := testUser1["email"].(string)

	resp := doJSON(t, fapp, fiber.MethodPut, "/users/me/password", map[string]any{
		"old_password": testUser1["password"],
		"new_password": "a-brand-new-password",
	}, token)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// old password no longer logs in
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", testUser1["password"].(string))
	req := httptest.NewRequest(fiber.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	oldResp, err := fapp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, oldResp.StatusCode)

	// new password does
	loginUser(t, fapp, email, "a-brand-new-password")
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)

	resp := doJSON(t, fapp, fiber.MethodPut, "/users/me/password", map[string]any{
		"old_password": "definitely-wrong",
		"new_password": "whatever",
	}, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid current password", body["detail"])
}

func TestDeleteAccountCascades(t *testing.T) {
	fapp := newTestApp(t)
	token := authToken(t, fapp, testUser1)
	adminToken := authToken(t, fapp, testAdmin)

	createTodo(t, fapp, token, map[string]any{"title": "orphan-to-be", "priority": 1})

	resp := doJSON(t, fapp, fiber.MethodDelete, "/users/me", nil, token)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// the token now resolves to a user that no longer exists; the gate
	// treats that identically to an invalid token
	resp = doJSON(t, fapp, fiber.MethodGet, "/todos", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// re-registering the same email starts from a clean slate
	freshToken := authToken(t, fapp, testUser1)
	resp = doJSON(t, fapp, fiber.MethodGet, "/todos", nil, freshToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var todos []map[string]any
	decodeBody(t, resp, &todos)
	assert.Empty(t, todos)

	// and the admin listing no longer shows the deleted account twice
	resp = doJSON(t, fapp, fiber.MethodGet, "/users", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []map[string]any
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	fapp := newTestApp(t)
	userToken := authToken(t, fapp, testUser1)
	registerUser(t, fapp, testUser2)

	resp := doJSON(t, fapp, fiber.MethodGet, "/users", nil, userToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "You do not have permission to view all users", body["detail"])
}

func TestListUsersAsAdmin(t *testing.T) {
	fapp := newTestApp(t)
	registerUser(t, fapp, testUser1)
	registerUser(t, fapp, testUser2)
	adminToken := authToken(t, fapp, testAdmin)

	resp := doJSON(t, fapp, fiber.MethodGet, "/users", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var users []map[string]any
	decodeBody(t, resp, &users)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u, "password_hash")
		assert.NotContains(t, u, "password")
	}
}
