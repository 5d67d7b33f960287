package storage

import (
	"tg-modsync/internal/models"

	"gorm.io/gorm"
)

// BanRepository handles database operations for BanRecord
type BanRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db}
}

// MigrateTable ensures the BanRecord table exists
func (r *BanRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.BanRecord{})
}

// CreateBan inserts a ban record, replacing any previous row for the user
func (r *BanRepository) CreateBan(record *models.BanRecord) error {
	if err := r.db.Where("user_id = ?", record.UserID).Delete(&models.BanRecord{}).Error; err != nil {
		return err
	}
	return r.db.Create(record).Error
}

// DeleteBan removes the ban record for a user
func (r *BanRepository) DeleteBan(userID int64) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.BanRecord{})
	return result.Error
}

// IsBanned reports whether the user has an active ban record
func (r *BanRepository) IsBanned(userID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.BanRecord{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
