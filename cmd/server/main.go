package main

import (
	"log"
	"os"
	"time"

	"go-pos-ledger/internal/database"
	"go-pos-ledger/internal/handlers"
	"go-pos-ledger/internal/middleware"
	"go-pos-ledger/internal/models"
	"go-pos-ledger/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal("❌ Failed to open the local snapshot store:", err)
	}

	cloud := store.NewCloudClient(os.Getenv("CLOUD_URL"), os.Getenv("CLOUD_API_KEY"))
	if cloud.Configured() {
		log.Println("☁️ Cloud sync enabled: " + os.Getenv("CLOUD_URL"))
	} else {
		log.Println("💾 Cloud sync disabled, running local-only")
	}

	st := store.New(cloud, store.NewLocalStore(db))
	h := handlers.New(st)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Store-Source"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", h.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// PUBLIC TO STAFF & ADMIN
		api.GET("/state", h.GetState)
		api.GET("/products", h.GetProducts)
		api.POST("/checkout", h.Checkout)
		api.GET("/customers", h.GetCustomers)
		api.PUT("/customers", h.ReplaceCustomers)
		api.GET("/system/status", h.GetSystemStatus)
		api.GET("/reports/dashboard", h.GetDashboard)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/ask", h.AskAI)

			admin.PUT("/products", h.ReplaceProducts)
			admin.GET("/suppliers", h.GetSuppliers)
			admin.PUT("/suppliers", h.ReplaceSuppliers)
			admin.GET("/employees", h.GetEmployees)
			admin.PUT("/employees", h.ReplaceEmployees)
			admin.GET("/salaries", h.GetSalaries)
			admin.POST("/salaries", h.AddSalary)
			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/valuation", h.GetStockValuation)
		}
	}

	// --- DEPLOYMENT: Serve the web frontend ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")

	// SPA Catch-All: a refresh on "/reports" still serves index.html so the
	// frontend router can take over.
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
