package router

import (
	"time"

	"serenicash/api"
	"serenicash/config"
	_ "serenicash/docs"
	"serenicash/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the HTTP routing tree.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())
	r.Use(middleware.RequestID())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// Auth routes (no token required)
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// JWT-protected routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			// Fixed paths must be registered before the :id routes.
			transactionHandler := api.NewTransactionHandler(cfg)
			analyticsHandler := api.NewAnalyticsHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/summary", transactionHandler.GetSummary)
				transactions.GET("/analytics", analyticsHandler.GetMonthly)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			budgetHandler := api.NewBudgetHandler()
			authorized.GET("/budget", budgetHandler.GetStatus)
			authorized.PUT("/budget", budgetHandler.Update)

			chatbotHandler := api.NewChatbotHandler(cfg)
			chatbot := authorized.Group("/chatbot")
			{
				chatbot.POST("/chat", chatbotHandler.Chat)
				chatbot.GET("/forecast", chatbotHandler.GetForecast)
			}

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/xlsx", exportHandler.ExportXLSX)
				export.GET("/pdf", exportHandler.ExportPDF)
			}

			// Admin routes
			userHandler := api.NewUserHandler()
			admin := authorized.Group("/admin")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.Get)
				admin.PUT("/users/:id/role", userHandler.UpdateRole)
				admin.DELETE("/users/:id", userHandler.Delete)
				admin.GET("/stats", userHandler.GetStats)
			}
		}
	}

	return r
}

// CORSMiddleware allows cross-origin requests from the frontend.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
