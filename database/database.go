package database

import (
	"shiftrota/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate creates or updates the four schedule tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Department{},
		&models.Employee{},
		&models.Holiday{},
		&models.Schedule{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
