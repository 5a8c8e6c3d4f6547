package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/infrastructure/database"
	"github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/routes"
	"github.com/sangkips/pharmacare-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		logrus.WithError(err).Warn("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	customSupplierRepo := repository.NewCustomSupplierRepository(db)
	stockEntryRepo := repository.NewStockEntryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	bulkOrderRepo := repository.NewBulkOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Initialize services
	allocator := service.NewAllocatorService(batchRepo)
	organizationService := service.NewOrganizationService(orgRepo)
	productService := service.NewProductService(productRepo, batchRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	inventoryService := service.NewInventoryService(batchRepo, productRepo, stockEntryRepo, customSupplierRepo, userRepo, txManager)
	saleService := service.NewSaleService(saleRepo, productRepo, patientRepo, batchRepo, stockEntryRepo, settingsRepo, allocator, txManager, cfg.POS)
	bulkOrderService := service.NewBulkOrderService(bulkOrderRepo, productRepo, userRepo, batchRepo, stockEntryRepo, allocator, txManager)
	patientService := service.NewPatientService(patientRepo, saleRepo)
	dashboardService := service.NewDashboardService(analyticsRepo)
	settingsService := service.NewSettingsService(settingsRepo, cfg.POS)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Organization: handler.NewOrganizationHandler(organizationService),
		Product:      handler.NewProductHandler(productService, categoryService),
		Inventory:    handler.NewInventoryHandler(inventoryService),
		Sale:         handler.NewSaleHandler(saleService),
		BulkOrder:    handler.NewBulkOrderHandler(bulkOrderService),
		Patient:      handler.NewPatientHandler(patientService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Settings:     handler.NewSettingsHandler(settingsService),
		User:         handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logrus.WithFields(logrus.Fields{
		"service": cfg.App.Name,
		"port":    port,
		"env":     cfg.App.Env,
	}).Info("Starting server")

	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
