package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rindra/farm-market-api/internal/services"
	"github.com/rindra/farm-market-api/internal/store"
	"github.com/rindra/farm-market-api/internal/utils"
)

// Handler holds the dependencies every endpoint works against.
type Handler struct {
	Store    *store.Store
	Tokens   *utils.TokenManager
	Payments services.PaymentProcessor
	Mailer   *services.EmailService
}

func NewHandler(db *store.Store, tokens *utils.TokenManager, payments services.PaymentProcessor, mailer *services.EmailService) *Handler {
	return &Handler{
		Store:    db,
		Tokens:   tokens,
		Payments: payments,
		Mailer:   mailer,
	}
}

// newID builds a timestamp-derived record id such as "animal_17096...".
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// respondStoreError maps a store failure to 404 or a generic 500 without
// leaking internals.
func respondStoreError(c *gin.Context, err error, notFoundMsg, internalMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
}
