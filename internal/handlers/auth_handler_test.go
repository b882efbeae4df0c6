package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/store"
)

func registerBody(username, email string) map[string]any {
	return map[string]any{
		"username": username,
		"password": "hunter2",
		"email":    email,
		"first":    "Alice",
		"last":     "Farmer",
	}
}

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, models.RoleUser, user["role"])
	assert.NotContains(t, user, "password")

	// The stored record carries a hash, never the plaintext.
	rec, err := env.db.FindByField(store.Users, "username", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, rec["password"])
	assert.NotEqual(t, "hunter2", rec["password"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.do(t, http.MethodPost, "/auth/register", "", registerBody("alice", "other@example.com"))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/auth/register", "", registerBody("alice", "shared@example.com"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.do(t, http.MethodPost, "/auth/register", "", registerBody("bob", "shared@example.com"))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "hunter2", models.RoleUser)

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "hunter2", models.RoleUser)

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, decodeBody(t, w), "token")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "ghost",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssuedTokenWorksAgainstProtectedRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	me := env.do(t, http.MethodGet, "/users/alice", token, nil)
	assert.Equal(t, http.StatusOK, me.Code)

	// Same token cannot reach someone else's resource.
	env.addUser(t, "bob", "pw", models.RoleUser)
	other := env.do(t, http.MethodGet, "/users/bob", token, nil)
	assert.Equal(t, http.StatusForbidden, other.Code)
}
