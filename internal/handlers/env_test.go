package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rindra/farm-market-api/internal/middleware"
	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/services"
	"github.com/rindra/farm-market-api/internal/store"
	"github.com/rindra/farm-market-api/internal/utils"
)

// stubProcessor lets tests decide the payment outcome.
type stubProcessor struct {
	err error
}

func (p *stubProcessor) Authorize(models.Order, float64) error {
	return p.err
}

type testEnv struct {
	db       *store.Store
	tokens   *utils.TokenManager
	payments *stubProcessor
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.New(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	payments := &stubProcessor{}
	h := NewHandler(db, tokens, payments, services.NewEmailService("", ""))

	r := gin.New()

	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	animals := r.Group("/animals")
	animals.GET("", h.ListAnimals)
	animals.GET("/search", h.SearchAnimals)
	animals.GET("/:id", h.GetAnimal)
	adminAnimals := animals.Group("", middleware.AuthRequired(db, tokens), middleware.AdminRequired())
	adminAnimals.POST("", h.CreateAnimal)
	adminAnimals.PATCH("/:id", h.UpdateAnimal)
	adminAnimals.DELETE("/:id", h.DeleteAnimal)

	orders := r.Group("/orders", middleware.AuthRequired(db, tokens))
	orders.GET("", middleware.AdminRequired(), h.ListOrders)
	orders.GET("/user/:username", middleware.OwnerOrAdmin("username"), h.ListUserOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/checkout", h.Checkout)
	orders.PATCH("/:id", middleware.AdminRequired(), h.UpdateOrder)
	orders.DELETE("/:id", middleware.AdminRequired(), h.DeleteOrder)

	users := r.Group("/users", middleware.AuthRequired(db, tokens))
	users.GET("", middleware.AdminRequired(), h.ListUsers)
	users.GET("/:username", middleware.OwnerOrAdmin("username"), h.GetUser)
	users.PATCH("/:username", middleware.OwnerOrAdmin("username"), h.UpdateUser)
	users.PATCH("/:username/password", middleware.OwnerOrAdmin("username"), h.UpdatePassword)
	users.DELETE("/:username", middleware.AdminRequired(), h.DeleteUser)

	return &testEnv{db: db, tokens: tokens, payments: payments, router: r}
}

func (e *testEnv) addUser(t *testing.T, username, password, role string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		First:    "Test",
		Last:     "User",
		Role:     role,
	}
	require.NoError(t, e.db.AddItem(store.Users, user))
	return user
}

func (e *testEnv) addAnimal(t *testing.T, id, animalType, name string, price float64) models.Animal {
	t.Helper()
	animal := models.Animal{
		ID:           id,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		AnimalType:   animalType,
		Age:          3,
		Weight:       120,
		Price:        price,
		AnimalName:   name,
		AnimalGender: models.GenderFemale,
	}
	require.NoError(t, e.db.AddItem(store.Animals, animal))
	return animal
}

func (e *testEnv) token(t *testing.T, username string) string {
	t.Helper()
	token, err := e.tokens.Generate(username)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
