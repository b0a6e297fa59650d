package routes

import (
	"scholarship-portal-api/controllers"
	"scholarship-portal-api/middleware"
	"scholarship-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Scholarship Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Scholarship catalog
			scholarships := protected.Group("/scholarships")
			{
				scholarships.GET("", controllers.GetScholarships)
				scholarships.GET("/:id", controllers.GetScholarship)

				// Only admin manages the catalog
				scholarships.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateScholarship)
				scholarships.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateScholarship)
				scholarships.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteScholarship)
			}

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)

				// Students submit and resubmit
				applications.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateApplication)
				applications.POST("/:id/documents", middleware.RequireRole(models.RoleStudent), controllers.UploadDocument)
				applications.POST("/:id/resubmit", middleware.RequireRole(models.RoleStudent), controllers.ResubmitDocuments)

				// Assigned reviewers score and request documents
				applications.GET("/:id/review", middleware.RequireRole(models.RoleReviewer), controllers.GetReviewDraft)
				applications.PUT("/:id/review", middleware.RequireRole(models.RoleReviewer), controllers.SaveReviewDraft)
				applications.POST("/:id/review/submit", middleware.RequireRole(models.RoleReviewer), controllers.SubmitReview)
				applications.POST("/:id/request-documents", middleware.RequireRole(models.RoleReviewer), controllers.RequestDocuments)

				// Committee assigns reviewers and decides
				applications.POST("/:id/assign-reviewer",
					middleware.RequireRole(models.RoleCommittee, models.RoleAdmin), controllers.AssignReviewer)
				applications.POST("/:id/decision",
					middleware.RequireRole(models.RoleCommittee, models.RoleAdmin), controllers.DecideApplication)

				// Documents attached to an application
				applications.GET("/:id/documents", controllers.GetDocuments)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("/download/:document_id", controllers.DownloadDocument)
			}

			// Users
			users := protected.Group("/users")
			{
				users.GET("/role/:role",
					middleware.RequireRole(models.RoleCommittee, models.RoleAdmin), controllers.GetUsersByRole)
				users.GET("", middleware.RequireRole(models.RoleAdmin), controllers.GetUsers)
				users.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateUser)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Audit logs (admin)
			protected.GET("/audit-logs", middleware.RequireRole(models.RoleAdmin), controllers.GetAuditLogs)
		}
	}
}
