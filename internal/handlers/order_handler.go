package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rindra/farm-market-api/internal/middleware"
	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/store"
)

// ListOrders returns every order. Admin only.
func (h *Handler) ListOrders(c *gin.Context) {
	recs, err := h.Store.GetCollection(store.Orders)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	orders, err := store.DecodeAll[models.Order](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListUserOrders returns the orders belonging to the path username.
// Owner or admin.
func (h *Handler) ListUserOrders(c *gin.Context) {
	recs, err := h.Store.GetCollection(store.Orders)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user orders"})
		return
	}
	orders, err := store.DecodeAll[models.Order](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user orders"})
		return
	}

	username := c.Param("username")
	userOrders := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Username == username {
			userOrders = append(userOrders, o)
		}
	}
	c.JSON(http.StatusOK, userOrders)
}

// GetOrder returns a single order; non-admins may only see their own.
func (h *Handler) GetOrder(c *gin.Context) {
	rec, err := h.Store.FindByID(store.Orders, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Order not found", "Failed to fetch order")
		return
	}
	order, err := store.Decode[models.Order](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !user.IsAdmin() && user.Username != order.Username {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type checkoutItem struct {
	AnimalID string `json:"animal_id"`
	Quantity int    `json:"quantity"`
}

type checkoutRequest struct {
	Items       []checkoutItem `json:"items" binding:"required,min=1"`
	ShipAddress string         `json:"ship_address" binding:"required"`
}

// Checkout validates the line items, authorizes payment, removes the
// purchased animals from the listing and records the order. Payment failure
// leaves the document untouched.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Items array required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address required"})
		return
	}

	recs, err := h.Store.GetCollection(store.Animals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}
	animals, err := store.DecodeAll[models.Animal](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	byID := make(map[string]models.Animal, len(animals))
	for _, a := range animals {
		byID[a.ID] = a
	}

	orderItems := make([]models.OrderItem, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	var totalAmount float64
	for _, item := range req.Items {
		if item.AnimalID == "" || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item data"})
			return
		}
		// Each animal can be sold exactly once.
		if seen[item.AnimalID] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate animal in order"})
			return
		}
		seen[item.AnimalID] = true
		animal, ok := byID[item.AnimalID]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Animal %s not found", item.AnimalID)})
			return
		}
		// You can't buy half an animal.
		if item.Quantity != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be 1 for animal purchases"})
			return
		}

		totalAmount += animal.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			AnimalID: item.AnimalID,
			Quantity: item.Quantity,
			Price:    animal.Price,
		})
	}

	user, _ := middleware.CurrentUser(c)
	order := models.Order{
		ID:          newID("order"),
		Username:    user.Username,
		OrderDate:   time.Now().UTC().Format(time.RFC3339),
		ShipAddress: req.ShipAddress,
		Items:       orderItems,
	}

	if err := h.Payments.Authorize(order, totalAmount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment processing failed"})
		return
	}

	purchased := make(map[string]bool, len(orderItems))
	for _, item := range orderItems {
		purchased[item.AnimalID] = true
	}
	remaining := make([]models.Animal, 0, len(animals))
	for _, a := range animals {
		if !purchased[a.ID] {
			remaining = append(remaining, a)
		}
	}
	if err := h.Store.ReplaceCollection(store.Animals, remaining); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	if err := h.Store.AddItem(store.Orders, order); err != nil {
		log.Printf("Checkout error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	if h.Mailer != nil && h.Mailer.Enabled() {
		if err := h.Mailer.SendOrderConfirmation(user, order, totalAmount); err != nil {
			log.Printf("Order confirmation email failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"order":          order,
		"total_amount":   totalAmount,
		"payment_status": "completed",
	})
}

type updateOrderRequest struct {
	ShipAddress *string             `json:"ship_address"`
	Items       *[]models.OrderItem `json:"items"`
}

// UpdateOrder applies a partial update to an order. Admin only.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patch := store.Record{}
	if req.ShipAddress != nil {
		patch["ship_address"] = *req.ShipAddress
	}
	if req.Items != nil {
		patch["items"] = *req.Items
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid updates provided"})
		return
	}

	rec, err := h.Store.UpdateItem(store.Orders, c.Param("id"), patch)
	if err != nil {
		respondStoreError(c, err, "Order not found", "Failed to update order")
		return
	}
	order, err := store.Decode[models.Order](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order. Admin only.
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.Store.DeleteItem(store.Orders, c.Param("id")); err != nil {
		respondStoreError(c, err, "Order not found", "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
