package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Tanish431/CC-BackProj-3/cache"
	"github.com/Tanish431/CC-BackProj-3/config"
	"github.com/Tanish431/CC-BackProj-3/handlers"
	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	log.Println("Connected to database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to apply schema: %v", err)
	}
	cancel()

	var ch *cache.Cache
	if cfg.RedisAddr != "" {
		ch = cache.New(cfg.RedisAddr, cfg.RedisPassword)
		defer ch.Close()
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := ch.Ping(pingCtx); err != nil {
			log.Printf("Redis unavailable, catalog cache disabled: %v", err)
			ch = nil
		}
		pingCancel()
	}

	r := gin.Default()
	r.Use(handlers.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.String(http.StatusOK, "pong")
	})

	auth := r.Group("/auth")
	{
		auth.POST("/user/signup", handlers.Signup(st, cfg.JWTSecret))
		auth.POST("/user/login", handlers.Login(st, cfg.JWTSecret))
		auth.POST("/admin/login", handlers.AdminLogin(st, cfg.JWTSecret))
	}
	if cfg.GoogleOAuthEnabled() {
		oauth := handlers.NewGoogleOAuth(
			cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.GoogleRedirectURI, cfg.ClientRedirectURI)
		auth.GET("/google", oauth.Login())
		auth.GET("/google/callback", oauth.Callback(st, cfg.JWTSecret))
	} else {
		log.Println("Google OAuth not configured, /auth/google disabled")
	}

	shop := r.Group("/shop")
	{
		shop.GET("/list", handlers.ShopList(st, ch))
	}

	authed := handlers.Authenticate(cfg.JWTSecret)

	cart := r.Group("/cart", authed)
	{
		cart.POST("/add", handlers.CartAdd(st))
		cart.GET("/info", handlers.CartInfo(st))
		cart.POST("/remove", handlers.CartRemove(st))
		cart.POST("/checkout", handlers.CartCheckout(st, ch))
	}

	orders := r.Group("/orders", authed)
	{
		orders.POST("/new", handlers.OrderNew(st, ch))
		orders.GET("/past", handlers.OrdersPast(st))
	}

	users := r.Group("/users", authed)
	{
		users.GET("/me", handlers.Profile(st))
		users.POST("/password", handlers.ChangePassword(st))
	}

	inventory := r.Group("/inventory", authed, handlers.RequireRole(models.RoleAdmin))
	{
		inventory.GET("/list", handlers.InventoryList(st))
		inventory.POST("/new", handlers.InventoryNew(st, ch))
		inventory.PUT("/update/:id", handlers.InventoryUpdate(st, ch))
		inventory.POST("/restock/:id", handlers.InventoryRestock(st, ch))
		inventory.GET("/low-stock", handlers.InventoryLowStock(st, cfg.LowStockThreshold))
		inventory.GET("/orders", handlers.InventoryOrders(st))
		inventory.GET("/revenue", handlers.InventoryRevenue(st))
		inventory.POST("/upload", handlers.InventoryUpload(st, ch))
	}

	log.Printf("Server is running on port %s", cfg.ServerPort)
	log.Fatal(r.Run(":" + cfg.ServerPort))
}
