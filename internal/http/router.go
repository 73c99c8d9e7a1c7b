package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ondrasimku/gallery-service/internal/auth"
	"github.com/ondrasimku/gallery-service/internal/config"
	"github.com/ondrasimku/gallery-service/internal/http/handler"
	"github.com/ondrasimku/gallery-service/internal/http/middleware"
	"github.com/ondrasimku/gallery-service/internal/storage"
)

func NewRouter(cfg *config.Config, storage storage.Storage, logger *slog.Logger) (*gin.Engine, error) {
	corsConfig, err := newCORSConfig(cfg.AllowOrigins)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), cors.New(corsConfig))

	healthHandler := handler.NewHealthHandler()
	adminHandler := handler.NewAdminHandler()
	uploadHandler := handler.NewUploadHandler(storage, cfg.MaxFileSize, logger)
	galleryHandler := handler.NewGalleryHandler(storage, logger)
	fileHandler := handler.NewFileHandler(storage, logger)

	router.GET("/healthz", healthHandler.Health)
	router.GET("/admin", adminHandler.Page)

	// Stored images are public.
	router.GET("/uploads/:filename", fileHandler.Serve)
	router.HEAD("/uploads/:filename", fileHandler.Serve)

	api := router.Group("/api")
	{
		api.GET("/gallery", galleryHandler.List)
		api.POST("/upload", auth.SharedSecretMiddleware(auth.Config{Secret: cfg.AdminPassword}), uploadHandler.Upload)
	}

	return router, nil
}

func newCORSConfig(origins []string) (cors.Config, error) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", auth.HeaderName, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			return corsConfig, nil
		}
	}
	corsConfig.AllowOrigins = origins

	if err := corsConfig.Validate(); err != nil {
		return cors.Config{}, fmt.Errorf("invalid CORS configuration: %w", err)
	}
	return corsConfig, nil
}
