package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"import-service/internal/clients"
	"import-service/internal/config"
	"import-service/internal/directory"
	"import-service/internal/events"
	"import-service/internal/handlers"
	"import-service/internal/importer"
	"import-service/internal/middleware"
	"import-service/internal/models"
	"import-service/internal/repository"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&models.ImportJob{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.ImportEventPublisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewImportEventPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Initialize backend clients
	directoryClient := clients.NewDirectoryClient(cfg.CategoriesServiceURL, cfg.SuppliersServiceURL, cfg.SupermarketsServiceURL)
	productsClient := clients.NewProductsClient(cfg.ProductsServiceURL)

	// Initialize directory resolution (optional Redis snapshot sharing)
	snapshotStore := directory.NewSnapshotStore(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB, cfg.DirectoryCacheTTL)
	cache := directory.NewCache(cfg.DirectoryCacheTTL)
	resolver := directory.NewResolver(directoryClient, cache, snapshotStore, logger)
	if eventPublisher != nil {
		publisher := eventPublisher
		resolver.OnSupermarketCreated = func(tenantID, id, name string) {
			if err := publisher.PublishSupermarketAutoCreated(tenantID, id, name); err != nil {
				logger.WithError(err).Warn("Failed to publish supermarket.auto_created event")
			}
		}
	}
	converter := importer.NewConverter(resolver, logger)

	// Initialize repository and handlers
	importRepo := repository.NewImportRepository(db)
	importHandler := handlers.NewImportHandler(converter, productsClient, importRepo, eventPublisher, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.TenantMiddleware())

	imports := api.Group("/imports")
	{
		imports.GET("", importHandler.ListImportJobs)

		imports.GET("/products/template", importHandler.GetProductImportTemplate)
		imports.POST("/products", importHandler.ImportProducts)
		imports.POST("/products/bulk", importHandler.ImportProductsBulk)

		imports.GET("/purchase-orders/template", importHandler.GetPurchaseOrderImportTemplate)
		imports.POST("/purchase-orders", importHandler.ImportPurchaseOrders)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Import service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down import-service...")
	log.Println("Import service stopped")
}
