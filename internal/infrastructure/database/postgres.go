package database

import (
	"fmt"
	"log"

	"github.com/marketday/fleamarket-api/internal/config"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// People and places
		&entity.Vendor{},
		&entity.Clerk{},
		&entity.Counter{},

		// Inventory
		&entity.Item{},
		&entity.ItemStateLog{},

		// Transactions
		&entity.Receipt{},
		&entity.ReceiptItem{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds a default counter and an overseer clerk so a fresh
// install can be logged into. The generated access code is printed once and
// never stored in the clear.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var counter entity.Counter
	if err := db.Where("identifier = ?", "main").First(&counter).Error; err != nil {
		counter = entity.Counter{
			Identifier: "main",
			Name:       "Main counter",
		}
		if err := db.Create(&counter).Error; err != nil {
			log.Printf("Warning: failed to create default counter: %v", err)
		}
	}

	var count int64
	if err := db.Model(&entity.Clerk{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		secret, hash, err := utils.NewAccessSecret()
		if err != nil {
			return err
		}
		clerk := entity.Clerk{
			Number:        1,
			Name:          "Overseer",
			AccessKeyHash: hash,
			Overseer:      true,
		}
		if err := db.Create(&clerk).Error; err != nil {
			log.Printf("Warning: failed to create default clerk: %v", err)
		} else {
			log.Printf("Default overseer created, access code: %s", utils.FormatAccessCode(clerk.Number, secret))
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
