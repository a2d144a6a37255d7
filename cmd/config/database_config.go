package config

import (
	"fmt"
	"log"

	"foodgram/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB() (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if utils.GetConfig("LOG_MODE") == "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	var dialector gorm.Dialector
	switch utils.GetConfig("DB_DRIVER") {
	case "sqlite":
		path := utils.GetConfig("SQLITE_PATH")
		if path == "" {
			path = "foodgram.db"
		}
		dialector = sqlite.Open(path + "?_foreign_keys=on")
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", utils.GetConfig("DB_DRIVER"))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Printf("Database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}
