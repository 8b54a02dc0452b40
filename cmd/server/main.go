package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rifaat-dev/propcore/internal/config"
	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/handlers"
	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Propcore API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes (outside the principal gate)
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	companyRepo := repository.NewCompanyRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	tenantRepo := repository.NewTenantRepository(db, cfg.Tenancy.SoftDeleteCascade)
	leaseRepo := repository.NewLeaseRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	rentalRequestRepo := repository.NewRentalRequestRepository(db)
	imageRepo := repository.NewImageRepository(db)
	projectionRepo := repository.NewProjectionRepository(db)

	// Initialize service layer
	locationService := services.NewLocationService(locationRepo, log)
	tenantService := services.NewTenantService(tenantRepo, userRepo, cfg.Tenancy, log)
	statsService := services.NewStatsService(projectionRepo, log)

	// Initialize handlers
	companyHandler := handlers.NewCompanyHandler(companyRepo, statsService)
	locationHandler := handlers.NewLocationHandler(locationRepo, locationService)
	userHandler := handlers.NewUserHandler(userRepo)
	propertyHandler := handlers.NewPropertyHandler(propertyRepo, imageRepo)
	unitHandler := handlers.NewUnitHandler(unitRepo, imageRepo)
	tenantHandler := handlers.NewTenantHandler(tenantRepo, tenantService, statsService)
	leaseHandler := handlers.NewLeaseHandler(leaseRepo)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceRepo, imageRepo)
	expenseHandler := handlers.NewExpenseHandler(expenseRepo)
	rentalRequestHandler := handlers.NewRentalRequestHandler(rentalRequestRepo)
	imageHandler := handlers.NewImageHandler(imageRepo)

	// Register API v1 routes; everything below requires a principal
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Principal())
	{
		companies := v1.Group("/companies")
		{
			companies.GET("", companyHandler.List)
			companies.POST("", companyHandler.Create)
			companies.GET("/:id", companyHandler.Get)
			companies.PUT("/:id", companyHandler.Update)
			companies.DELETE("/:id", companyHandler.Delete)
			companies.GET("/:id/stats", companyHandler.Stats)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", locationHandler.List)
			locations.POST("", locationHandler.Create)
			locations.GET("/:id", locationHandler.Get)
			locations.PUT("/:id", locationHandler.Update)
			locations.DELETE("/:id", locationHandler.Delete)
			locations.GET("/:id/children", locationHandler.Children)
			locations.GET("/:id/full-path", locationHandler.FullPath)
		}

		users := v1.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		properties := v1.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.POST("", propertyHandler.Create)
			properties.GET("/:id", propertyHandler.Get)
			properties.PUT("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.GET("/:id/images", propertyHandler.ListImages)
			properties.POST("/:id/images", propertyHandler.AttachImage)
		}

		units := v1.Group("/units")
		{
			units.GET("", unitHandler.List)
			units.POST("", unitHandler.Create)
			units.GET("/:id", unitHandler.Get)
			units.PUT("/:id", unitHandler.Update)
			units.DELETE("/:id", unitHandler.Delete)
			units.GET("/:id/features", unitHandler.Features)
			units.POST("/:id/features", unitHandler.AddFeature)
			units.DELETE("/features/:featureID", unitHandler.RemoveFeature)
			units.GET("/:id/images", unitHandler.ListImages)
			units.POST("/:id/images", unitHandler.AttachImage)
		}

		tenants := v1.Group("/tenants")
		{
			tenants.GET("", tenantHandler.List)
			tenants.POST("", tenantHandler.Create)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PUT("/:id", tenantHandler.Update)
			tenants.DELETE("/:id", tenantHandler.Delete)
		}

		leases := v1.Group("/leases")
		{
			leases.GET("", leaseHandler.List)
			leases.POST("", leaseHandler.Create)
			leases.GET("/:id", leaseHandler.Get)
			leases.PUT("/:id", leaseHandler.Update)
			leases.DELETE("/:id", leaseHandler.Delete)
			leases.POST("/:id/payments", leaseHandler.RecordPayment)
		}

		maintenance := v1.Group("/maintenance-requests")
		{
			maintenance.GET("", maintenanceHandler.List)
			maintenance.POST("", maintenanceHandler.Create)
			maintenance.GET("/:id", maintenanceHandler.Get)
			maintenance.PUT("/:id", maintenanceHandler.Update)
			maintenance.DELETE("/:id", maintenanceHandler.Delete)
			maintenance.GET("/:id/images", maintenanceHandler.ListImages)
			maintenance.POST("/:id/images", maintenanceHandler.AttachImage)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		rentalRequests := v1.Group("/rental-requests")
		{
			rentalRequests.GET("", rentalRequestHandler.List)
			rentalRequests.POST("", rentalRequestHandler.Create)
			rentalRequests.GET("/:id", rentalRequestHandler.Get)
			rentalRequests.POST("/:id/review", rentalRequestHandler.Review)
			rentalRequests.DELETE("/:id", rentalRequestHandler.Delete)
		}

		images := v1.Group("/images")
		{
			images.GET("/:id", imageHandler.Get)
			images.DELETE("/:id", imageHandler.Delete)
			images.PUT("/:id/primary", imageHandler.SetPrimary)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
