package main

import (
	"fmt"
	"net/http"
	"os"

	"centsible/internal/config"
	"centsible/internal/database"
	"centsible/internal/engine"
	"centsible/internal/handlers"
	"centsible/internal/logger"
	"centsible/internal/middleware"
	"centsible/internal/services"
	"centsible/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "centsible/internal/docs" // Import swagger docs
)

// @title           Centsible API
// @version         1.0
// @description     Centsible is a personal expense tracker built around recurring budget periods: spend targets that roll over on a configurable weekly calendar.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db, appConfig.DefaultTimezone)
	auditService := services.NewAuditService(db)

	// Period engine and background scheduler
	periodEngine := engine.New(db, settingsService)
	scheduler := engine.NewScheduler(periodEngine, appConfig.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	budgetService := services.NewBudgetService(db, periodEngine)
	expenseService := services.NewExpenseService(db, settingsService)
	placeService := services.NewPlaceService(db)
	receiptService := services.NewReceiptService(db, appConfig.ReceiptDir)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	placeHandler := handlers.NewPlaceHandler(placeService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	engineHandler := handlers.NewEngineHandler(periodEngine)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Operator routes
	internal := v1.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(appConfig.InternalAPIKey))
	internal.POST("/reconcile", engineHandler.Reconcile)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/activate", budgetHandler.ActivateBudget)
	budgets.POST("/:id/schedule", budgetHandler.ScheduleBudget)
	budgets.POST("/:id/vacation", budgetHandler.SetVacation)
	budgets.GET("/:id/periods", budgetHandler.GetPeriods)
	budgets.GET("/:id/history", budgetHandler.GetHistory)

	// Period routes
	periods := protected.Group("/periods")
	periods.GET("/current", budgetHandler.GetCurrentPeriod)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/export", expenseHandler.ExportExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PATCH("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/receipt", receiptHandler.UploadReceipt)
	expenses.GET("/:id/receipt", receiptHandler.DownloadReceipt)
	expenses.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Place routes
	places := protected.Group("/places")
	places.POST("", placeHandler.CreatePlace)
	places.GET("", placeHandler.GetPlaces)
	places.GET("/nearby", placeHandler.GetNearbyPlaces)
	places.GET("/:id", placeHandler.GetPlace)
	places.PATCH("/:id", placeHandler.UpdatePlace)
	places.DELETE("/:id", placeHandler.DeletePlace)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("/timezone", settingsHandler.GetTimezone)
	settings.PUT("/timezone", settingsHandler.SetTimezone)

	log.Infof("Starting Centsible backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
