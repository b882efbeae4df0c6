package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/store"
	"github.com/rindra/farm-market-api/internal/utils"
)

func setup(t *testing.T) (*store.Store, *utils.TokenManager, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.New(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	require.NoError(t, db.AddItem(store.Users, models.User{Username: "alice", Role: models.RoleUser}))
	require.NoError(t, db.AddItem(store.Users, models.User{Username: "boss", Role: models.RoleAdmin}))

	r := gin.New()
	r.GET("/me", AuthRequired(db, tokens), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/admin", AuthRequired(db, tokens), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/users/:username", AuthRequired(db, tokens), OwnerOrAdmin("username"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return db, tokens, r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	_, _, r := setup(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
}

func TestAuthRequiredBadToken(t *testing.T) {
	_, _, r := setup(t)
	assert.Equal(t, http.StatusForbidden, get(r, "/me", "garbage").Code)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	_, _, r := setup(t)
	expired := utils.NewTokenManager("test-secret", time.Nanosecond)
	token, err := expired.Generate("alice")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, http.StatusForbidden, get(r, "/me", token).Code)
}

func TestAuthRequiredUnknownUser(t *testing.T) {
	_, tokens, r := setup(t)
	token, err := tokens.Generate("ghost")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
}

func TestAuthRequiredAttachesUser(t *testing.T) {
	_, tokens, r := setup(t)
	token, err := tokens.Generate("alice")
	require.NoError(t, err)

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAdminRequired(t *testing.T) {
	_, tokens, r := setup(t)

	userToken, err := tokens.Generate("alice")
	require.NoError(t, err)
	adminToken, err := tokens.Generate("boss")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", adminToken).Code)
}

func TestOwnerOrAdmin(t *testing.T) {
	_, tokens, r := setup(t)

	aliceToken, err := tokens.Generate("alice")
	require.NoError(t, err)
	adminToken, err := tokens.Generate("boss")
	require.NoError(t, err)

	// Owner reaches their own resource, admin reaches anyone's, and a
	// non-owner non-admin is turned away.
	assert.Equal(t, http.StatusOK, get(r, "/users/alice", aliceToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/users/alice", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/users/boss", aliceToken).Code)
}
