// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/config"
	"github.com/locmaq/locmaq-backend/internal/handlers"
	"github.com/locmaq/locmaq-backend/internal/middleware"
	"github.com/locmaq/locmaq-backend/internal/services"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	machineService := services.NewMachineService(db)
	quoteService := services.NewQuoteService(db, notificationService)
	rentalService := services.NewRentalService(db, notificationService)
	returnService := services.NewReturnService(db, notificationService)
	dashboardService := services.NewDashboardService(db)
	companyService := services.NewCompanyService(db)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	machineHandler := handlers.NewMachineHandler(machineService, storageService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	rentalHandler := handlers.NewRentalHandler(rentalService, returnService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, notificationService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
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
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Catalog routes
		machines := v1.Group("/machines")
		{
			machines.GET("", middleware.OptionalAuth(), machineHandler.SearchMachines)
			machines.GET("/:id", middleware.OptionalAuth(), machineHandler.GetMachine)

			// Landlord routes
			protected := machines.Group("")
			protected.Use(middleware.AuthRequired(), middleware.LandlordRequired())
			{
				protected.POST("", machineHandler.CreateMachine)
				protected.PUT("/:id", machineHandler.UpdateMachine)
				protected.DELETE("/:id", machineHandler.DeleteMachine)
			}
		}

		v1.GET("/categories", machineHandler.ListCategories)

		// Accessory routes
		accessories := v1.Group("/accessories")
		{
			accessories.GET("", middleware.OptionalAuth(), machineHandler.ListAccessories)

			protected := accessories.Group("")
			protected.Use(middleware.AuthRequired(), middleware.LandlordRequired())
			{
				protected.POST("", machineHandler.CreateAccessory)
				protected.DELETE("/:id", machineHandler.DeleteAccessory)
			}
		}

		// Quote routes
		quotes := v1.Group("/quotes")
		quotes.Use(middleware.AuthRequired())
		{
			quotes.POST("", middleware.ClientRequired(), quoteHandler.SubmitQuote)
			quotes.GET("", quoteHandler.GetQuotes)
			quotes.GET("/:id", quoteHandler.GetQuote)
			quotes.PUT("/:id/respond", quoteHandler.RespondToQuote)
			quotes.PUT("/:id/reject", quoteHandler.RejectQuote)
			quotes.POST("/:id/approve", quoteHandler.ApproveQuote)
		}

		// Rental routes
		rentals := v1.Group("/rentals")
		rentals.Use(middleware.AuthRequired())
		{
			rentals.GET("", rentalHandler.GetRentals)
			rentals.GET("/:id", rentalHandler.GetRental)
			rentals.GET("/:id/timeline", rentalHandler.GetRentalTimeline)
			rentals.PUT("/:id/approve", rentalHandler.ApproveRental)
			rentals.PUT("/:id/reject", rentalHandler.RejectRental)
			rentals.POST("/:id/returns", rentalHandler.RequestReturn)
			rentals.GET("/:id/returns", rentalHandler.ListReturns)
		}

		// Return routes
		returns := v1.Group("/returns")
		returns.Use(middleware.AuthRequired())
		{
			returns.GET("/:id", rentalHandler.GetReturn)
			returns.PUT("/:id/approve", rentalHandler.ApproveReturn)
			returns.PUT("/:id/complete", rentalHandler.CompleteReturn)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired())
		{
			dashboard.GET("/landlord", middleware.LandlordRequired(), dashboardHandler.GetLandlordDashboard)
			dashboard.GET("/client", dashboardHandler.GetClientDashboard)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", dashboardHandler.GetNotifications)
			notifications.PUT("/read-all", dashboardHandler.MarkAllNotificationsRead)
			notifications.PUT("/:id/read", dashboardHandler.MarkNotificationRead)
		}

		// Upload routes
		uploads := v1.Group("/uploads")
		uploads.Use(middleware.AuthRequired(), middleware.UploadRateLimit())
		{
			uploads.POST("", machineHandler.UploadImage)
		}

		// Institutional content (public)
		company := v1.Group("/company")
		{
			company.GET("", companyHandler.ListContent)
			company.GET("/:section", companyHandler.GetContent)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Dashboard
			adminDashboard := admin.Group("/dashboard")
			{
				adminDashboard.GET("/stats", adminHandler.GetDashboard)
			}

			// User management
			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			// Category management
			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", adminHandler.CreateCategory)
				adminCategories.DELETE("/:id", adminHandler.DeleteCategory)
			}

			// Institutional content management
			adminCompany := admin.Group("/company")
			{
				adminCompany.PUT("/:section", companyHandler.UpsertContent)
			}

			// Analytics and reporting
			adminAnalytics := admin.Group("/analytics")
			{
				adminAnalytics.GET("", adminHandler.GetAnalytics)
			}

			// Audit logs
			adminAudit := admin.Group("/audit-logs")
			{
				adminAudit.GET("", adminHandler.GetAuditLogs)
			}

			// Settings management
			adminSettings := admin.Group("/settings")
			{
				adminSettings.GET("", adminHandler.GetSettings)
				adminSettings.PUT("", adminHandler.UpdateSetting)
			}
		}
	}

	return r
}
