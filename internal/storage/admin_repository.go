package storage

import (
	"tg-modsync/internal/models"

	"gorm.io/gorm"
)

// AdminRepository handles database operations for AdminRecord
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// MigrateTable ensures the AdminRecord table exists
func (r *AdminRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.AdminRecord{})
}

// CreateAdmin inserts an admin record; granting twice is not an error
func (r *AdminRepository) CreateAdmin(record *models.AdminRecord) error {
	existing, err := r.get(record.AdminID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return r.db.Create(record).Error
}

// DeleteAdmin removes the admin record for a user
func (r *AdminRepository) DeleteAdmin(adminID int64) error {
	result := r.db.Where("admin_id = ?", adminID).Delete(&models.AdminRecord{})
	return result.Error
}

// IsAdmin reports whether the user holds an admin record
func (r *AdminRepository) IsAdmin(adminID int64) (bool, error) {
	record, err := r.get(adminID)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

func (r *AdminRepository) get(adminID int64) (*models.AdminRecord, error) {
	var record models.AdminRecord
	result := r.db.Where("admin_id = ?", adminID).First(&record)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}
