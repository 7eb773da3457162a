// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/locmaq/locmaq-backend/internal/config"
	"github.com/locmaq/locmaq-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Machine{},
		&models.Accessory{},
		&models.Quote{},
		&models.Rental{},
		&models.Return{},
		&models.CompanyContent{},
		&models.Notification{},
		&models.AdminSettings{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Machine indexes
		"CREATE INDEX IF NOT EXISTS idx_machines_landlord ON machines(landlord_id)",
		"CREATE INDEX IF NOT EXISTS idx_machines_category_status ON machines(category_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_machines_created_at ON machines(created_at DESC)",

		// Quote indexes
		"CREATE INDEX IF NOT EXISTS idx_quotes_client ON quotes(client_id)",
		"CREATE INDEX IF NOT EXISTS idx_quotes_landlord_status ON quotes(landlord_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at DESC)",

		// Rental indexes
		"CREATE INDEX IF NOT EXISTS idx_rentals_client ON rentals(client_id)",
		"CREATE INDEX IF NOT EXISTS idx_rentals_landlord_status ON rentals(landlord_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_rentals_created_at ON rentals(created_at DESC)",

		// Return indexes
		"CREATE INDEX IF NOT EXISTS idx_returns_rental_status ON returns(rental_id, status)",

		// Notification / audit indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_status ON notifications(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search index
		"CREATE INDEX IF NOT EXISTS idx_machines_search ON machines USING GIN(to_tsvector('portuguese', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@locmaq.com.br",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
			ProfileData: models.JSONB{
				"first_name": "System",
				"last_name":  "Administrator",
				"role":       "super_admin",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create default machine categories
	defaultCategories := []models.Category{
		{Name: "Escavadeiras", Description: "Escavadeiras hidráulicas e mini escavadeiras", Icon: "excavator"},
		{Name: "Retroescavadeiras", Description: "Retroescavadeiras para obras de médio porte", Icon: "backhoe"},
		{Name: "Compactadores", Description: "Rolos compactadores e placas vibratórias", Icon: "roller"},
		{Name: "Geradores", Description: "Geradores de energia a diesel", Icon: "generator"},
		{Name: "Andaimes", Description: "Andaimes e plataformas elevatórias", Icon: "scaffold"},
	}

	for _, category := range defaultCategories {
		var count int64
		db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count)

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: Failed to create category %s: %v", category.Name, err)
			}
		}
	}

	// Create default platform settings
	var admin models.User
	if err := db.Where("user_type = ?", models.UserTypeAdmin).First(&admin).Error; err == nil {
		defaultSettings := []models.AdminSettings{
			{
				Category:    "general",
				Key:         "platform_name",
				Value:       models.JSONB{"value": "LocMaq"},
				DataType:    "string",
				Description: "Platform name displayed to users",
			},
			{
				Category:    "quotes",
				Key:         "max_accessories_per_quote",
				Value:       models.JSONB{"value": 10},
				DataType:    "integer",
				Description: "Maximum accessories attachable to a single quote",
			},
			{
				Category:    "content",
				Key:         "max_file_size",
				Value:       models.JSONB{"value": 10},
				DataType:    "integer",
				Description: "Maximum file size in MB for image uploads",
			},
		}

		for _, setting := range defaultSettings {
			var count int64
			db.Model(&models.AdminSettings{}).Where("category = ? AND key = ?", setting.Category, setting.Key).Count(&count)

			if count == 0 {
				setting.UpdatedBy = admin.ID
				if err := db.Create(&setting).Error; err != nil {
					log.Printf("Warning: Failed to create setting %s.%s: %v", setting.Category, setting.Key, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
