package config

import (
	"fmt"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the configured database into DB and migrates the schema.
func InitDB(cfg *Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := logger.Warn
	if cfg.Env == "production" {
		logLevel = logger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	utils.LogInfo("Database ready (driver=%s)", cfg.DBDriver)
	return nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedCatalog inserts the launch collection into an empty catalog.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Product{
		{
			Name:        "Velvet Corset",
			Description: "Structured black velvet corset with satin lacing and boning.",
			Price:       decimal.NewFromInt(450),
			Image:       "https://images.nocturnelux.com/velvet-corset.jpg",
			Category:    "Corsets",
			Stock:       5,
			Featured:    true,
		},
		{
			Name:        "Gothic Lace Gown",
			Description: "Floor-length gown layered in Chantilly lace with a sweeping train.",
			Price:       decimal.NewFromInt(850),
			Image:       "https://images.nocturnelux.com/gothic-lace-gown.jpg",
			Category:    "Dresses",
			Stock:       3,
			Featured:    true,
		},
		{
			Name:        "Victorian Choker",
			Description: "Velvet choker with an antique silver cameo pendant.",
			Price:       decimal.NewFromInt(180),
			Image:       "https://images.nocturnelux.com/victorian-choker.jpg",
			Category:    "Jewelry",
			Stock:       12,
		},
		{
			Name:        "Shadow Cloak",
			Description: "Hooded wool cloak lined in midnight silk.",
			Price:       decimal.NewFromInt(620),
			Image:       "https://images.nocturnelux.com/shadow-cloak.jpg",
			Category:    "Outerwear",
			Stock:       7,
			Featured:    true,
		},
	}
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	utils.LogInfo("Seeded %d catalog products", len(seed))
	return nil
}
