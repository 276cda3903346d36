// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/handlers"
	"github.com/agrifund/agrifund-backend/internal/middleware"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	tokenService := services.NewTokenService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, storageService)
	farmService := services.NewFarmService(db, cfg, storageService, tokenService, notificationService)
	investmentService := services.NewInvestmentService(db, cfg, paymentService, tokenService)
	roiService := services.NewROIService(db, cfg, tokenService)
	withdrawalService := services.NewWithdrawalService(db, cfg, roiService, notificationService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	farmHandler := handlers.NewFarmHandler(farmService, tokenService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	roiHandler := handlers.NewROIHandler(roiService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(adminService, farmService, userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/kyc-document", middleware.UploadRateLimit(), userHandler.UploadKYCDocument)
			users.GET("/kyc-document", userHandler.GetKYCDocumentURL)
		}

		// Farm registry routes
		farms := v1.Group("/farms")
		{
			farms.GET("", middleware.OptionalAuth(), farmHandler.ListFarms)
			farms.GET("/:id", middleware.OptionalAuth(), farmHandler.GetFarm)
			farms.GET("/:id/verify", farmHandler.VerifyFarmToken)

			// Authenticated routes
			protected := farms.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", farmHandler.CreateFarm)
				protected.PATCH("/:id", farmHandler.UpdateFarm)
				protected.DELETE("/:id", farmHandler.DeleteFarm)
				protected.POST("/:id/image", middleware.UploadRateLimit(), farmHandler.UploadFarmImage)
			}
		}

		// Investment ledger routes
		investments := v1.Group("/investments")
		investments.Use(middleware.AuthRequired())
		{
			investments.POST("", investmentHandler.RecordInvestment)
			investments.GET("", investmentHandler.ListInvestments)
			investments.GET("/:id", investmentHandler.GetInvestment)
		}

		// ROI payout routes
		roiRecords := v1.Group("/roi-records")
		roiRecords.Use(middleware.AuthRequired())
		{
			roiRecords.POST("", roiHandler.CreateROIRecord)
			roiRecords.GET("", roiHandler.ListROIRecords)
		}

		// Withdrawal routes
		withdrawals := v1.Group("/withdrawals")
		withdrawals.Use(middleware.AuthRequired())
		{
			withdrawals.POST("", withdrawalHandler.CreateWithdrawal)
			withdrawals.GET("", withdrawalHandler.ListWithdrawals)
			withdrawals.GET("/:id", withdrawalHandler.GetWithdrawal)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.GET("/intent/:id", paymentHandler.GetPaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboard)
			admin.GET("/users", adminHandler.GetUsers)
			admin.GET("/users/:id/kyc-document", adminHandler.GetUserKYCDocument)
			admin.PUT("/users/:id/kyc", adminHandler.UpdateKYCStatus)
			admin.PUT("/users/:id/active", adminHandler.SetUserActive)
			admin.PUT("/farms/:id/status", adminHandler.UpdateFarmStatus)
			admin.GET("/withdrawals", withdrawalHandler.ListWithdrawals)
			admin.PUT("/withdrawals/:id/approve", withdrawalHandler.ApproveWithdrawal)
			admin.PUT("/withdrawals/:id/complete", withdrawalHandler.CompleteWithdrawal)
			admin.POST("/payments/refund", paymentHandler.RefundPayment)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
