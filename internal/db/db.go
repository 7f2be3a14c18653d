package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Stylist{},
		&models.ServiceMenu{},
		&models.ServiceRecord{},
		&models.RecordPhoto{},
		&models.Reservation{},
		&models.AuditLog{},
		&models.PasswordResetToken{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}
