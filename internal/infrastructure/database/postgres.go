package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Tenancy entities
		&entity.Organization{},
		&entity.Branch{},
		&entity.User{},

		// Catalogue entities
		&entity.Category{},
		&entity.Product{},

		// Inventory entities
		&entity.CustomSupplier{},
		&entity.Batch{},
		&entity.StockEntry{},

		// Point-of-sale entities
		&entity.Patient{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Payment{},
		&entity.POSSettings{},

		// Bulk order entities
		&entity.BulkOrder{},
		&entity.BulkOrderItem{},
		&entity.BulkOrderStatusLog{},
		&entity.BulkOrderPayment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds a default organization, branch and admin user when
// configured via environment variables.
func SeedDefaultData(db *gorm.DB) error {
	logrus.Info("Seeding default data...")

	orgName := viper.GetString("DEFAULT_ORG_NAME")
	orgSlug := viper.GetString("DEFAULT_ORG_SLUG")
	if orgName == "" {
		orgName = "Main Pharmacy"
	}
	if orgSlug == "" {
		orgSlug = "main"
	}

	var org entity.Organization
	if err := db.Where("slug = ?", orgSlug).First(&org).Error; err != nil {
		org = entity.Organization{
			Name:   orgName,
			Slug:   orgSlug,
			Active: true,
		}
		if err := db.Create(&org).Error; err != nil {
			return fmt.Errorf("failed to create default organization: %w", err)
		}
		logrus.WithField("organization", orgSlug).Info("Default organization created")
	}

	var branch entity.Branch
	if err := db.Where("organization_id = ?", org.ID).First(&branch).Error; err != nil {
		branch = entity.Branch{
			OrganizationID: org.ID,
			Name:           "Main Branch",
			Active:         true,
		}
		if err := db.Create(&branch).Error; err != nil {
			return fmt.Errorf("failed to create default branch: %w", err)
		}
	}

	var settings entity.POSSettings
	if err := db.Where("organization_id = ? AND branch_id IS NULL", org.ID).First(&settings).Error; err != nil {
		settings = entity.DefaultPOSSettings(org.ID)
		settings.BusinessName = org.Name
		if err := db.Create(&settings).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create default POS settings")
		}
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				logrus.WithError(err).Warn("Failed to hash admin password")
			} else {
				if adminName == "" {
					adminName = "Pharmacy Admin"
				}
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					ID:             uuid.New(),
					OrganizationID: org.ID,
					BranchID:       &branch.ID,
					FirstName:      firstName,
					LastName:       lastName,
					Email:          adminEmail,
					Password:       string(hashedPassword),
					Role:           enum.UserRoleAdmin,
					Active:         true,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					logrus.WithError(err).Warn("Failed to create admin user")
				} else {
					logrus.WithField("email", adminEmail).Info("Admin user created")
				}
			}
		}
	}

	logrus.Info("Default data seeding completed")
	return nil
}
