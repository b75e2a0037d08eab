package database

import (
	"log"
	"os"
	"time"

	"go-pos-ledger/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the local snapshot database.
//
// When DB_DSN is set the snapshot lives in MySQL (shared counter machine for
// shops running several tills against one LAN box). Otherwise it falls back
// to an embedded SQLite file next to the binary, so a single till keeps
// working with zero setup and zero network.
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")

	var db *gorm.DB
	var err error

	if dsn != "" {
		// Wait for MySQL to be ready, same machine may still be booting.
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Warn),
			})
			if err == nil {
				break
			}
			log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, err
		}
		log.Println("✅ Local snapshot store: MySQL")
	} else {
		path := os.Getenv("LOCAL_DB_PATH")
		if path == "" {
			path = "./pos_local.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, err
		}
		log.Println("✅ Local snapshot store: SQLite at " + path)
	}

	if err := db.AutoMigrate(&models.StoreSnapshot{}); err != nil {
		return nil, err
	}

	log.Println("✅ Snapshot schema synced!")
	return db, nil
}
