package utils

import (
	"fmt"

	"kitobxon/backend/config"
	"kitobxon/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database (sqlite by default, postgres when
// DB_DRIVER=postgres) and runs migrations. The two backends are
// interchangeable; everything above this layer talks plain GORM.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := ensureSuperadmin(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and seeds default rows.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserBadge{},
		&models.ReadingLog{},
		&models.ReadingPlan{},
		&models.Quiz{},
		&models.Result{},
		&models.Notification{},
		&models.SystemSetting{},
	)
	if err != nil {
		return err
	}
	return seedSettings(db)
}

var defaultSettings = map[string]string{
	"registration_open": "true",
}

func ensureSuperadmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "superadmin").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:         "Superadmin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         "superadmin",
		Level:        "Yangi",
	}).Error
}

func seedSettings(db *gorm.DB) error {
	for key, value := range defaultSettings {
		var setting models.SystemSetting
		err := db.Where("key = ?", key).First(&setting).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&models.SystemSetting{Key: key, Value: value}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
