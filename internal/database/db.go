package database

import (
	"log"
	"time"

	"boba-pos/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database and syncs the schema. A MySQL DSN is used when
// given; otherwise the server runs against a local SQLite file so dev setups
// work with zero configuration.
func Connect(dsn, sqlitePath string) {
	var err error

	if dsn != "" {
		// Wait for MySQL to be ready (docker-compose races the DB container)
		for i := 0; i < 5; i++ {
			DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Warn),
			})
			if err == nil {
				break
			}
			log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatal("Failed to connect to database after 5 attempts:", err)
		}
		log.Println("✅ Connected to MySQL")
	} else {
		DB, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Fatal("Failed to open SQLite database:", err)
		}
		log.Println("✅ Using SQLite at " + sqlitePath)
	}

	Migrate(DB)
	log.Println("✅ Database Schema Synced!")
}

// Migrate runs AutoMigrate for every entity. Exported so tests can build the
// same schema on an in-memory database.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.InventoryItem{},
		&models.ProductIngredient{},
		&models.Cashier{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.ZClosure{},
	)
	if err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
}
