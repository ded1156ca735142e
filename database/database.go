package database

import (
	"fmt"
	"log"

	"cashbook/config"
	"cashbook/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection, migrates the schema and seeds the
// business lookup tables when empty.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.BusinessCategory{},
		&models.BusinessType{},
		&models.Business{},
		&models.Membership{},
		&models.TransactionCategory{},
		&models.Transaction{},
	); err != nil {
		return err
	}

	// Seed the business lookups on a fresh database only.
	var catCount int64
	DB.Model(&models.BusinessCategory{}).Count(&catCount)
	if catCount == 0 {
		cats := []models.BusinessCategory{
			{Name: "Retail"},
			{Name: "Food & Beverage"},
			{Name: "Services"},
			{Name: "Wholesale"},
			{Name: "Other"},
		}
		_ = DB.Create(&cats).Error
	}

	var typeCount int64
	DB.Model(&models.BusinessType{}).Count(&typeCount)
	if typeCount == 0 {
		types := []models.BusinessType{
			{Name: "Sole Proprietorship"},
			{Name: "Partnership"},
			{Name: "Limited Company"},
			{Name: "Other"},
		}
		_ = DB.Create(&types).Error
	}

	log.Println("database initialized")
	return nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}
