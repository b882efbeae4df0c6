package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rindra/farm-market-api/internal/config"
	"github.com/rindra/farm-market-api/internal/handlers"
	"github.com/rindra/farm-market-api/internal/middleware"
	"github.com/rindra/farm-market-api/internal/services"
	"github.com/rindra/farm-market-api/internal/store"
	"github.com/rindra/farm-market-api/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set; token issuance will fail.")
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.DatabasePath, err)
	}
	log.Printf("Using database file %s", cfg.DatabasePath)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	payments := services.NewCardProcessor()
	mailer := services.NewEmailService(cfg.SendGridKey, cfg.SenderEmail)
	if !mailer.Enabled() {
		log.Println("SENDGRID_API_KEY not set; order confirmation emails disabled.")
	}

	h := handlers.NewHandler(db, tokens, payments, mailer)

	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}

	animals := r.Group("/animals")
	{
		animals.GET("", h.ListAnimals)
		animals.GET("/search", h.SearchAnimals)
		animals.GET("/:id", h.GetAnimal)

		adminAnimals := animals.Group("", middleware.AuthRequired(db, tokens), middleware.AdminRequired())
		adminAnimals.POST("", h.CreateAnimal)
		adminAnimals.PATCH("/:id", h.UpdateAnimal)
		adminAnimals.DELETE("/:id", h.DeleteAnimal)
	}

	orders := r.Group("/orders", middleware.AuthRequired(db, tokens))
	{
		orders.GET("", middleware.AdminRequired(), h.ListOrders)
		orders.GET("/user/:username", middleware.OwnerOrAdmin("username"), h.ListUserOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/checkout", h.Checkout)
		orders.PATCH("/:id", middleware.AdminRequired(), h.UpdateOrder)
		orders.DELETE("/:id", middleware.AdminRequired(), h.DeleteOrder)
	}

	users := r.Group("/users", middleware.AuthRequired(db, tokens))
	{
		users.GET("", middleware.AdminRequired(), h.ListUsers)
		users.GET("/:username", middleware.OwnerOrAdmin("username"), h.GetUser)
		users.PATCH("/:username", middleware.OwnerOrAdmin("username"), h.UpdateUser)
		users.PATCH("/:username/password", middleware.OwnerOrAdmin("username"), h.UpdatePassword)
		users.DELETE("/:username", middleware.AdminRequired(), h.DeleteUser)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
