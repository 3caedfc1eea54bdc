package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/controllers"
	authService "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/auth"
	jwt "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/jwt"
	authMiddleware "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/middleware"
	container "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Container"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	implementation "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Implementation"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewApiContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting API Service")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize database")
	}

	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to get database connection")
	}

	// Create repositories and ensure indexes
	userRepo := implementation.NewMongoUserRepository(db)
	dataRepo := implementation.NewMongoDeviceDataRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create user indexes")
	}
	if err := dataRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create device data indexes")
	}

	// Get configuration
	config := ctr.GetConfig()

	// Initialize JWT service for token issuance and validation
	jwtService := jwt.NewService(api_models.Config{
		SecretKey:     config.Auth.JWTSecretKey,
		TokenDuration: config.Auth.TokenDuration,
		Issuer:        config.Auth.JWTIssuer,
	})

	// Create auth middleware and services
	authMiddlewareInstance := authMiddleware.NewAuthMiddleware(jwtService)
	authServiceInstance := authService.NewAuthService(userRepo, jwtService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}))

	// Create controllers and register routes
	authController := controllers.NewAuthController(authServiceInstance, logger)
	dataController := controllers.NewDataController(dataRepo, logger)

	authController.RegisterRoutes(router, authMiddlewareInstance)
	dataController.RegisterRoutes(router, authMiddlewareInstance)

	// Liveness endpoint
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Create HTTP server with timeouts
	port := config.Server.Port
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("API service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
