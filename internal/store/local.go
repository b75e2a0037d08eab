package store

import (
	"errors"

	"go-pos-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotKey names the single row holding the serialized document.
const snapshotKey = "pos_store_backup"

// LocalStore persists the serialized document as one opaque blob. It is the
// offline durability floor: every save lands here first, and load falls back
// here when the cloud read yields nothing.
type LocalStore interface {
	// ReadBlob returns the stored document, or "" if none was ever written.
	ReadBlob() (string, error)
	WriteBlob(data string) error
}

type dbLocalStore struct {
	db *gorm.DB
}

// NewLocalStore wraps the snapshot table opened by database.Connect.
func NewLocalStore(db *gorm.DB) LocalStore {
	return &dbLocalStore{db: db}
}

func (s *dbLocalStore) ReadBlob() (string, error) {
	var snap models.StoreSnapshot
	err := s.db.First(&snap, "key = ?", snapshotKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.Data, nil
}

func (s *dbLocalStore) WriteBlob(data string) error {
	snap := models.StoreSnapshot{Key: snapshotKey, Data: data}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error
}
