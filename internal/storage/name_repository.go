package storage

import (
	"tg-modsync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NameRepository handles database operations for CachedName
type NameRepository struct {
	db *gorm.DB
}

// NewNameRepository creates a new NameRepository
func NewNameRepository(db *gorm.DB) *NameRepository {
	return &NameRepository{db: db}
}

// MigrateTable ensures the CachedName table exists
func (r *NameRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.CachedName{})
}

// CacheName stores the latest display name seen for a user
func (r *NameRepository) CacheName(userID int64, username string) error {
	record := models.CachedName{UserID: userID, Username: username}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username"}),
	}).Create(&record).Error
}

// LookupID resolves a cached username to a user id
func (r *NameRepository) LookupID(username string) (int64, bool, error) {
	var record models.CachedName
	result := r.db.Where("username = ?", username).
		Order("user_id DESC").
		First(&record)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, result.Error
	}
	return record.UserID, true, nil
}
