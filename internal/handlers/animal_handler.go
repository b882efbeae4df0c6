package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rindra/farm-market-api/internal/models"
	"github.com/rindra/farm-market-api/internal/store"
)

// ListAnimals returns every animal currently for sale. Public.
func (h *Handler) ListAnimals(c *gin.Context) {
	recs, err := h.Store.GetCollection(store.Animals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch animals"})
		return
	}
	animals, err := store.DecodeAll[models.Animal](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch animals"})
		return
	}
	c.JSON(http.StatusOK, animals)
}

// SearchAnimals filters the listing by free text, type, gender and numeric
// ranges. At least one parameter must be present. Public.
func (h *Handler) SearchAnimals(c *gin.Context) {
	params := []string{"q", "type", "gender", "min_age", "max_age", "min_weight", "max_weight", "min_price", "max_price"}
	provided := false
	for _, p := range params {
		if c.Query(p) != "" {
			provided = true
			break
		}
	}
	if !provided {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one search parameter required"})
		return
	}

	recs, err := h.Store.GetCollection(store.Animals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	animals, err := store.DecodeAll[models.Animal](recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	filtered := animals
	if q := strings.ToLower(c.Query("q")); q != "" {
		filtered = filterAnimals(filtered, func(a models.Animal) bool {
			return strings.Contains(strings.ToLower(a.AnimalName), q) ||
				strings.Contains(strings.ToLower(a.AnimalType), q)
		})
	}
	if t := strings.ToLower(c.Query("type")); t != "" {
		filtered = filterAnimals(filtered, func(a models.Animal) bool {
			return strings.ToLower(a.AnimalType) == t
		})
	}
	if g := strings.ToLower(c.Query("gender")); g != "" {
		filtered = filterAnimals(filtered, func(a models.Animal) bool {
			return strings.ToLower(a.AnimalGender) == g
		})
	}

	intRanges := []struct {
		param string
		keep  func(models.Animal, int) bool
	}{
		{"min_age", func(a models.Animal, v int) bool { return a.Age >= v }},
		{"max_age", func(a models.Animal, v int) bool { return a.Age <= v }},
	}
	for _, r := range intRanges {
		if raw := c.Query(r.param); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + r.param})
				return
			}
			keep := r.keep
			filtered = filterAnimals(filtered, func(a models.Animal) bool { return keep(a, v) })
		}
	}

	floatRanges := []struct {
		param string
		keep  func(models.Animal, float64) bool
	}{
		{"min_weight", func(a models.Animal, v float64) bool { return a.Weight >= v }},
		{"max_weight", func(a models.Animal, v float64) bool { return a.Weight <= v }},
		{"min_price", func(a models.Animal, v float64) bool { return a.Price >= v }},
		{"max_price", func(a models.Animal, v float64) bool { return a.Price <= v }},
	}
	for _, r := range floatRanges {
		if raw := c.Query(r.param); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + r.param})
				return
			}
			keep := r.keep
			filtered = filterAnimals(filtered, func(a models.Animal) bool { return keep(a, v) })
		}
	}

	c.JSON(http.StatusOK, filtered)
}

func filterAnimals(animals []models.Animal, keep func(models.Animal) bool) []models.Animal {
	out := make([]models.Animal, 0, len(animals))
	for _, a := range animals {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// GetAnimal returns a single animal by id. Public.
func (h *Handler) GetAnimal(c *gin.Context) {
	rec, err := h.Store.FindByID(store.Animals, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Animal not found", "Failed to fetch animal")
		return
	}
	animal, err := store.Decode[models.Animal](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch animal"})
		return
	}
	c.JSON(http.StatusOK, animal)
}

type createAnimalRequest struct {
	AnimalType   string   `json:"animal_type" binding:"required"`
	Age          *int     `json:"age" binding:"required,gte=0"`
	Weight       *float64 `json:"weight" binding:"required,gt=0"`
	Price        *float64 `json:"price" binding:"required,gt=0"`
	AnimalName   string   `json:"animal_name" binding:"required"`
	AnimalGender string   `json:"animal_gender" binding:"required"`
}

// CreateAnimal adds a new listing. Admin only.
func (h *Handler) CreateAnimal(c *gin.Context) {
	var req createAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: animal_type, age, weight, price, animal_name, animal_gender"})
		return
	}

	if !models.IsFarmAnimal(req.AnimalType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Invalid animal type. Must be a farm animal.",
			"valid_types": models.FarmAnimalTypes,
		})
		return
	}
	if !models.IsValidGender(req.AnimalGender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Animal gender must be either "male" or "female"`})
		return
	}

	animal := models.Animal{
		ID:           newID("animal"),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		AnimalType:   models.TitleCase(req.AnimalType),
		Age:          *req.Age,
		Weight:       *req.Weight,
		Price:        *req.Price,
		AnimalName:   req.AnimalName,
		AnimalGender: models.TitleCase(req.AnimalGender),
	}

	if err := h.Store.AddItem(store.Animals, animal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create animal record"})
		return
	}
	c.JSON(http.StatusCreated, animal)
}

type updateAnimalRequest struct {
	AnimalType   *string  `json:"animal_type"`
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Price        *float64 `json:"price"`
	AnimalName   *string  `json:"animal_name"`
	AnimalGender *string  `json:"animal_gender"`
}

// UpdateAnimal applies a partial update: present fields are validated,
// normalized and merged onto the stored record. Admin only.
func (h *Handler) UpdateAnimal(c *gin.Context) {
	var req updateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patch := store.Record{}
	if req.AnimalType != nil {
		if !models.IsFarmAnimal(*req.AnimalType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Invalid animal type. Must be a farm animal.",
				"valid_types": models.FarmAnimalTypes,
			})
			return
		}
		patch["animal_type"] = models.TitleCase(*req.AnimalType)
	}
	if req.Age != nil {
		if *req.Age < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Age must be zero or positive"})
			return
		}
		patch["age"] = *req.Age
	}
	if req.Weight != nil {
		patch["weight"] = *req.Weight
	}
	if req.Price != nil {
		patch["price"] = *req.Price
	}
	if req.AnimalName != nil {
		patch["animal_name"] = *req.AnimalName
	}
	if req.AnimalGender != nil {
		if !models.IsValidGender(*req.AnimalGender) {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Animal gender must be either "male" or "female"`})
			return
		}
		patch["animal_gender"] = models.TitleCase(*req.AnimalGender)
	}

	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid updates provided"})
		return
	}

	rec, err := h.Store.UpdateItem(store.Animals, c.Param("id"), patch)
	if err != nil {
		respondStoreError(c, err, "Animal not found", "Failed to update animal")
		return
	}
	animal, err := store.Decode[models.Animal](rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update animal"})
		return
	}
	c.JSON(http.StatusOK, animal)
}

// DeleteAnimal removes a listing. Admin only.
func (h *Handler) DeleteAnimal(c *gin.Context) {
	if err := h.Store.DeleteItem(store.Animals, c.Param("id")); err != nil {
		respondStoreError(c, err, "Animal not found", "Failed to delete animal record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Animal record deleted successfully"})
}
