package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rindra/farm-market-api/internal/middleware"
	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/store"
	"github.com/rindra/farm-market-api/internal/utils"
)

// ListUsers returns every account with password hashes stripped. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	recs, err := h.Store.GetCollection(store.Users)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	users, err := store.DecodeAll[models.User](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	safe := make([]models.User, 0, len(users))
	for _, u := range users {
		safe = append(safe, u.Sanitized())
	}
	c.JSON(http.StatusOK, safe)
}

// GetUser returns one account. Owner or admin.
func (h *Handler) GetUser(c *gin.Context) {
	rec, err := h.Store.FindByField(store.Users, "username", c.Param("username"))
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to fetch user")
		return
	}
	user, err := store.Decode[models.User](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user.Sanitized())
}

type updateUserRequest struct {
	StreetAddress *string `json:"street_address"`
	Email         *string `json:"email"`
	First         *string `json:"first"`
	Last          *string `json:"last"`
	Role          *string `json:"role"`
}

// UpdateUser applies a partial profile update. Owner or admin; only admins
// may change the role, a role field from anyone else is ignored.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, _ := middleware.CurrentUser(c)
	username := c.Param("username")

	patch := store.Record{}
	if req.StreetAddress != nil {
		patch["street_address"] = *req.StreetAddress
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.First != nil {
		patch["first"] = *req.First
	}
	if req.Last != nil {
		patch["last"] = *req.Last
	}
	if req.Role != nil && actor.IsAdmin() {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Role must be either "user" or "admin"`})
			return
		}
		patch["role"] = *req.Role
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid updates provided"})
		return
	}

	if req.Email != nil {
		existing, err := h.Store.FindByField(store.Users, "email", *req.Email)
		if err == nil && existing["username"] != username {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	rec, err := h.Store.UpdateItemBy(store.Users, "username", username, patch)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to update user")
		return
	}
	updated, err := store.Decode[models.User](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, updated.Sanitized())
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdatePassword changes an account password. Owners must prove knowledge of
// the current password; admins may reset without it.
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password required"})
		return
	}

	username := c.Param("username")
	rec, err := h.Store.FindByField(store.Users, "username", username)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to update password")
		return
	}
	user, err := store.Decode[models.User](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if !actor.IsAdmin() {
		if req.CurrentPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password required"})
			return
		}
		if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid current password"})
			return
		}
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if _, err := h.Store.UpdateItemBy(store.Users, "username", username, store.Record{"password": hashed}); err != nil {
		respondStoreError(c, err, "User not found", "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteUser removes an account. Admin only.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Store.DeleteItemBy(store.Users, "username", c.Param("username")); err != nil {
		respondStoreError(c, err, "User not found", "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
