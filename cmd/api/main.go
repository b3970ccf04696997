package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"research-repository-api/config"
	"research-repository-api/controllers"
	"research-repository-api/middleware"
	"research-repository-api/routes"
	"research-repository-api/services"
	"research-repository-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := os.Getenv("ENVIRONMENT")
	logFile, logger := config.InitLogging(environment)
	if logFile != nil {
		defer logFile.Close()
	}
	defer func() { _ = logger.Sync() }()

	jwtSecret := os.Getenv("JWT_SECRET")
	linkSecret := os.Getenv("FILE_LINK_SECRET")
	if jwtSecret == "" || linkSecret == "" {
		logger.Fatal("JWT_SECRET and FILE_LINK_SECRET must be set")
	}
	if jwtSecret == linkSecret {
		logger.Warn("FILE_LINK_SECRET should differ from JWT_SECRET")
	}

	// Initialize database
	config.InitDB()
	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := config.AutoMigrate(config.DB); err != nil {
			logger.Fatal("Schema migration failed", zap.Error(err))
		}
	}

	policy := config.LoadPolicy()

	// Create upload directory if not exists
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	files, err := storage.NewLocalStore(uploadPath, policy.MaxUploadBytes())
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	publicBase := os.Getenv("PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = "http://localhost:" + port
	}
	apiBase := publicBase + "/api/v1"

	users := services.NewUserService(config.DB)

	var notifier services.Notifier
	if config.MailerConfigured() {
		notifier = services.NewMailNotifier(config.SendMail)
	} else {
		logger.Info("SMTP not configured, review decision e-mails disabled")
	}

	submissionService := services.NewSubmissionService(services.SubmissionServiceConfig{
		Store:    services.NewGormSubmissionStore(config.DB),
		Files:    files,
		Links:    services.NewJWTLinkSigner(linkSecret, apiBase, services.SystemClock),
		Users:    users,
		Notifier: notifier,
		Policy: services.Policy{
			ReviseWindow: policy.ReviseWindow(),
			DeleteWindow: policy.DeleteWindow(),
			SignedURLTTL: policy.SignedURLTTL(),
		},
		Clock:      services.SystemClock,
		StreamBase: apiBase,
		Logger:     logger,
	})

	tokenHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		tokenHours = 24
	}

	// Create Gin router
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router, routes.Handlers{
		Auth:        controllers.NewAuthController(users, jwtSecret, time.Duration(tokenHours)*time.Hour),
		Submissions: controllers.NewSubmissionController(submissionService, files),
		JWTSecret:   jwtSecret,
		Users:       users,
		LogPath:     config.LogFilePath(),
	})

	logger.Info("Server starting",
		zap.String("port", port),
		zap.Duration("revise_window", policy.ReviseWindow()),
		zap.Duration("delete_window", policy.DeleteWindow()),
		zap.Duration("signed_url_ttl", policy.SignedURLTTL()))

	if ginMode == "release" {
		logger.Info("Running in production mode")
	} else {
		logger.Info("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
