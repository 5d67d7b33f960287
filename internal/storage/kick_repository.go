package storage

import (
	"tg-modsync/internal/models"

	"gorm.io/gorm"
)

// KickRepository handles database operations for KickRecord
type KickRepository struct {
	db *gorm.DB
}

// NewKickRepository creates a new KickRepository
func NewKickRepository(db *gorm.DB) *KickRepository {
	return &KickRepository{db: db}
}

// MigrateTable ensures the KickRecord table exists
func (r *KickRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.KickRecord{})
}

// CreateKick inserts a kick event record
func (r *KickRepository) CreateKick(record *models.KickRecord) error {
	return r.db.Create(record).Error
}
