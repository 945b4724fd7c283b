package db

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.Seed {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs schema migrations for all domain tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.User{},
		&model.EquipmentItem{},
		&model.Reservation{},
		&model.NotificationLog{},
		&model.PushSubscription{},
	)
}

// Seed inserts the demo inventory and default users into an empty database.
// A non-empty items table leaves everything untouched.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.EquipmentItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding demo data...")

	categories := []model.Category{
		{Name: "Laptops"}, {Name: "Tablets"}, {Name: "Accessories"},
		{Name: "Monitors"}, {Name: "Audio"}, {Name: "Furniture"}, {Name: "Cameras"},
	}

	items := []model.EquipmentItem{
		{Name: `MacBook Pro 16"`, Category: "Laptops", Specifications: "M3 Max, 64GB RAM, 1TB SSD"},
		{Name: `iPad Pro 12.9"`, Category: "Tablets", Specifications: "M2 Chip, 256GB, Space Gray"},
		{Name: "Logitech MX Master 3", Category: "Accessories", Specifications: "Wireless, Graphite"},
		{Name: `Dell UltraSharp 27"`, Category: "Monitors", Specifications: "4K UHD, USB-C Hub"},
		{Name: "Sony WH-1000XM4", Category: "Audio", Specifications: "Noise Canceling, Black"},
		{Name: "Focusrite Scarlett 2i2", Category: "Audio", Specifications: "3rd Gen USB Audio Interface"},
		{Name: "Herman Miller Aeron", Category: "Furniture", Specifications: "Size B, PostureFit SL"},
		{Name: "Insta360 Link", Category: "Cameras", Specifications: "4K AI Webcam"},
	}
	for i := range items {
		items[i].ID = uuid.NewString()
	}

	users := []model.User{
		{ID: uuid.NewString(), Name: "Alice Chen", Email: "alice@company.com", Role: model.RoleEmployee, Password: model.DefaultPassword},
		{ID: uuid.NewString(), Name: "David Wang", Email: "david.admin@company.com", Role: model.RoleAdmin, Password: model.DefaultPassword},
		{ID: uuid.NewString(), Name: "Emily Lee", Email: "emily@company.com", Role: model.RoleEmployee, Password: model.DefaultPassword},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Create(&users).Error
	})
}
