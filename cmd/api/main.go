package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/config"
	"github.com/marketday/fleamarket-api/internal/infrastructure/database"
	"github.com/marketday/fleamarket-api/internal/infrastructure/repository"
	"github.com/marketday/fleamarket-api/internal/presentation/http/handler"
	"github.com/marketday/fleamarket-api/internal/presentation/http/routes"
	"github.com/marketday/fleamarket-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	itemRepo := repository.NewItemRepository(db)
	logRepo := repository.NewItemStateLogRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	receiptItemRepo := repository.NewReceiptItemRepository(db)
	clerkRepo := repository.NewClerkRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	vendorRepo := repository.NewVendorRepository(db)

	// Select the commission policy
	provisionFn := provisionPolicy(&cfg.Provision)

	// Initialize services
	ledgerService := service.NewLedgerService(txManager, itemRepo, logRepo, receiptRepo, receiptItemRepo, vendorRepo)
	receiptService := service.NewReceiptService(txManager, receiptRepo, receiptItemRepo, itemRepo, logRepo)
	compensationService := service.NewCompensationService(txManager, receiptRepo, receiptItemRepo, itemRepo, logRepo, vendorRepo, provisionFn)
	statsService := service.NewStatsService(logRepo)
	clerkService := service.NewClerkService(txManager, clerkRepo, counterRepo, receiptRepo, jwtManager)
	vendorService := service.NewVendorService(vendorRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Clerk:        handler.NewClerkHandler(clerkService),
		Item:         handler.NewItemHandler(ledgerService),
		Receipt:      handler.NewReceiptHandler(receiptService),
		Compensation: handler.NewCompensationHandler(compensationService),
		Vendor:       handler.NewVendorHandler(vendorService),
		Stats:        handler.NewStatsHandler(statsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// provisionPolicy maps the configured policy name onto a commission function.
// An unknown name falls back to no commission.
func provisionPolicy(cfg *config.ProvisionConfig) service.ProvisionFunc {
	switch cfg.Policy {
	case "linear":
		return service.LinearProvision(cfg.RatePercent)
	case "step":
		return service.StepProvision(cfg.StepSize, cfg.StepFee)
	case "none", "":
		return nil
	default:
		log.Printf("Warning: unknown provision policy %q, commission disabled", cfg.Policy)
		return nil
	}
}
