package main

import (
	"log"
	"time"

	"boba-pos/internal/alerts"
	"boba-pos/internal/auth"
	"boba-pos/internal/config"
	"boba-pos/internal/database"
	"boba-pos/internal/handlers"
	"boba-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	auth.SetSecret(cfg.JWTSecret)
	database.Connect(cfg.DBDSN, cfg.SQLitePath)

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	oauth := auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	authHandler := &handlers.AuthHandler{
		Sessions:    sessions,
		OAuth:       oauth,
		StaffDomain: cfg.StaffEmailDomain,
	}

	notifier := alerts.NewNotifier(database.DB,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.AlertFrom, cfg.AlertTo)

	// Background jobs: expired-session sweep and the low-stock scan.
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(1).Hour().Do(func() {
		if n := sessions.Sweep(); n > 0 {
			log.Printf("session sweep: removed %d expired session(s)", n)
		}
	})
	scheduler.Every(6).Hours().Do(notifier.CheckLowStock)
	scheduler.StartAsync()

	middleware.InitMetrics()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "message": "Boba POS API is running", "version": "1.0"})
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", handlers.Login)
	if cfg.AllowRegistration {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	api := r.Group("/api")

	// OAuth endpoints manage their own tokens; they sit outside the JWT guard.
	authGroup := api.Group("/auth")
	{
		authGroup.GET("/google/url", authHandler.GoogleAuthURL)
		authGroup.POST("/google/callback", authHandler.GoogleCallback)
		authGroup.GET("/me", authHandler.Me)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(sessions))
	{
		// STAFF & ADMIN
		protected.GET("/products", handlers.GetProducts)
		protected.POST("/orders", handlers.CreateOrder)
		protected.GET("/orders", handlers.ListOrders)
		protected.GET("/orders/recent", handlers.RecentOrders)
		protected.GET("/orders/:id", handlers.GetOrder)
		protected.POST("/orders/:id/refund", handlers.RefundOrder)
		protected.GET("/inventory", handlers.ListInventory)

		// ADMIN ONLY
		admin := protected.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.GET("/products/:id/ingredients", handlers.ListProductIngredients)
			admin.POST("/products/:id/ingredients", handlers.AddProductIngredient)
			admin.DELETE("/products/:id/ingredients/:inventoryId", handlers.RemoveProductIngredient)

			admin.POST("/inventory", handlers.AddInventoryItem)
			admin.PUT("/inventory/:id", handlers.UpdateInventoryItem)
			admin.PUT("/inventory/:id/restock", handlers.RestockInventoryItem)
			admin.DELETE("/inventory/:id", handlers.DeleteInventoryItem)

			admin.GET("/employees", handlers.ListCashiers)
			admin.POST("/employees", handlers.AddCashier)
			admin.PUT("/employees/:id/active", handlers.SetCashierActive)
			admin.DELETE("/employees/:id", handlers.DeleteCashier)

			admin.GET("/reports", handlers.ReportsIndex)
			admin.GET("/reports/x-report", handlers.GetXReport)
			admin.POST("/reports/z-report", handlers.RunZReport)
			admin.GET("/reports/summary", handlers.GetSummary)
			admin.GET("/reports/weekly-items", handlers.GetWeeklyItems)
			admin.GET("/reports/daily-top", handlers.GetDailyTop)
		}
	}

	log.Println("🚀 Server starting on " + cfg.BaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
