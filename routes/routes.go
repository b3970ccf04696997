package routes

import (
	"research-repository-api/controllers"
	"research-repository-api/middleware"
	"research-repository-api/models"
	"research-repository-api/monitor"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth        *controllers.AuthController
	Submissions *controllers.SubmissionController
	JWTSecret   string
	Users       middleware.UserLookup
	LogPath     string
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", h.Auth.Login)

			// Signed links carry their own capability
			public.GET("/files/signed/:token", h.Submissions.DownloadSignedFile)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Repository API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(h.JWTSecret, h.Users))
		{
			// User profile
			protected.GET("/profile", h.Auth.GetProfile)

			// Submissions (owner operations)
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", h.Submissions.GetSubmissions)
				submissions.POST("", h.Submissions.CreateSubmission)
				submissions.GET("/:id", h.Submissions.GetSubmission)
				submissions.PUT("/:id", h.Submissions.UpdateSubmission)
				submissions.DELETE("/:id", h.Submissions.DeleteSubmission)

				// File access
				submissions.GET("/:id/file", h.Submissions.GetFileAccess)
				submissions.GET("/:id/file/content", h.Submissions.StreamFile)
			}

			// Only reviewers and admins can decide
			review := protected.Group("/review", middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				review.GET("/submissions", h.Submissions.GetReviewQueue)
				review.POST("/submissions/:id/decision", h.Submissions.ReviewSubmission)
			}

			// Admin only
			admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				if h.LogPath != "" {
					monitor.RegisterLogsRoute(admin, h.LogPath)
				}
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found", "code": "not_found"})
	})
}
