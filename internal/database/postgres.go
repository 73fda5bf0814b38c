package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/civicgrid/backend/internal/config"
	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/pkg/utils"
)

func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Complaint{},
		&models.AssignmentEvent{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

func Seed(db *gorm.DB) error {
	log.Println("Seeding database...")

	departments := []models.Department{
		{Code: "DPT_W", Name: "Water Supply", SLAHours: 24},
		{Code: "DPT_E", Name: "Electricity", SLAHours: 12},
		{Code: "DPT_PI", Name: "Public Infrastructure", SLAHours: 72},
		{Code: "DPT_C", Name: "Cleanliness", SLAHours: 48},
	}

	for _, dept := range departments {
		var existing models.Department
		result := db.Where("code = ?", dept.Code).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := db.Create(&dept).Error; err != nil {
				log.Printf("Failed to create department %s: %v", dept.Code, err)
			}
		}
	}

	// Default manager account for first login.
	var admin models.User
	result := db.Where("email = ?", "admin@civicgrid.local").First(&admin)
	if result.Error == gorm.ErrRecordNotFound {
		hashedPassword, _ := utils.HashPassword("admin123")
		admin = models.User{
			Email:          "admin@civicgrid.local",
			Password:       hashedPassword,
			Name:           "City Admin",
			Role:           models.RoleManager,
			DepartmentCode: "DPT_PI",
		}
		db.Create(&admin)
	}

	log.Println("Database seeding completed")
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
