// @title           PhotoProof Backend API
// @version         1.0.0
// @description     Backend API for photo proofing: photographers create projects, upload photos, and share token-protected galleries where clients select and comment on photos.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"photoproof-backend/internal/auth"
	"photoproof-backend/internal/config"
	"photoproof-backend/internal/database"
	"photoproof-backend/internal/handlers"
	"photoproof-backend/internal/middleware"
	"photoproof-backend/internal/services"
	"photoproof-backend/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database connection and schema migration
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Object storage
	store, err := storage.NewMinioStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to prepare storage bucket: %v", err)
	}

	// Owner credential plumbing
	tokenManager := auth.NewTokenManager(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenExpireMin)*time.Minute,
		time.Duration(cfg.RefreshTokenExpireMin)*time.Minute,
	)
	verifier := auth.NewGoogleVerifier(cfg.GoogleTokenInfoURL)

	// Services
	sessionService := services.NewSessionService(db)
	authService := services.NewAuthService(db, verifier, tokenManager)
	projectService := services.NewProjectService(db, store, sessionService)
	photoService := services.NewPhotoService(db, store, cfg.MaxUploadBytes)
	guestService := services.NewGuestService(db, store, sessionService)
	exportService := services.NewExportService(db, store)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectsHandler := handlers.NewProjectsHandler(projectService)
	photosHandler := handlers.NewPhotosHandler(photoService, exportService, cfg.BaseURL+"/api/v1")
	guestHandler := handlers.NewPhotosGuestHandler(guestService)

	// Expired projects are swept in the background; expiry of guest tokens
	// is enforced lazily on access and needs no sweep.
	go cleanupLoop(projectService)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api/v1")

	// Auth (no bearer token yet)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Guest routes (project token in query/body, no JWT)
	api.GET("/photos-guest", guestHandler.ListPhotos)
	api.GET("/photos-guest/:photo_id", guestHandler.GetPhotoImage)
	api.GET("/photos-guest/:photo_id/meta", guestHandler.GetPhotoMeta)
	api.POST("/photos-guest/:photo_id/select", guestHandler.SelectPhoto)
	api.POST("/photos-guest/:photo_id/unselect", guestHandler.UnselectPhoto)

	// Token verification (token+password in body, no JWT)
	api.POST("/projects/verify-project-token", projectsHandler.VerifyProjectToken)

	// Owner routes
	owner := api.Group("")
	owner.Use(middleware.AuthMiddleware(tokenManager, db))

	owner.POST("/projects", projectsHandler.CreateProject)
	owner.GET("/projects", projectsHandler.ListProjects)
	owner.GET("/projects/:project_id", projectsHandler.GetProject)
	owner.PATCH("/projects/:project_id", projectsHandler.UpdateProject)
	owner.PATCH("/projects/:project_id/status", projectsHandler.UpdateProjectStatus)
	owner.DELETE("/projects/:project_id", projectsHandler.DeleteProject)
	owner.POST("/projects/create-project-token", projectsHandler.CreateProjectToken)
	owner.GET("/projects/:project_id/token", projectsHandler.GetProjectToken)
	owner.DELETE("/projects/:project_id/token", projectsHandler.RevokeProjectToken)
	owner.POST("/projects/:project_id/token/refresh", projectsHandler.RefreshProjectToken)

	owner.POST("/photos/:id/upload", photosHandler.UploadPhoto)
	owner.POST("/photos/:id/upload-edited", photosHandler.UploadEditedPhoto)
	owner.GET("/photos/:id/list", photosHandler.ListProjectPhotos)
	owner.GET("/photos/:id", photosHandler.GetPhotoImage)
	owner.GET("/photos/:id/meta", photosHandler.GetPhotoMeta)
	owner.PATCH("/photos/:id/flags", photosHandler.UpdatePhotoFlags)
	owner.GET("/photos/:id/download-photos", photosHandler.DownloadPhotos)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// cleanupLoop hard-deletes projects whose expired_date has passed.
func cleanupLoop(projects *services.ProjectService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := projects.CleanupExpiredProjects(context.Background())
		if err != nil {
			log.Printf("Expired project cleanup failed: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Removed %d expired projects", removed)
		}
	}
}
