package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/qwf666/GroupMsgSyncTools/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open creates the parent directory for path if needed, opens the SQLite
// database there and runs migrations.
func Open(path string) (*Service, error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
		log.Printf("Created database directory: %s", dir)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.MessageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("Database connection established: %s", path)
	return NewStorageService(db), nil
}
