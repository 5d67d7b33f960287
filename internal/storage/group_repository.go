package storage

import (
	"time"

	"tg-modsync/internal/models"

	"gorm.io/gorm"
)

// GroupRepository handles database operations for Group
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// MigrateTable ensures the Group table exists
func (r *GroupRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Group{})
}

// ListGroups retrieves all registered groups
func (r *GroupRepository) ListGroups() ([]*models.Group, error) {
	var groups []*models.Group
	result := r.db.Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}
	return groups, nil
}

// GetGroup retrieves a group by chat id, nil when not registered
func (r *GroupRepository) GetGroup(chatID int64) (*models.Group, error) {
	var group models.Group
	result := r.db.Where("chat_id = ?", chatID).First(&group)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &group, nil
}

// UpsertGroup creates a new group record or updates an existing one
func (r *GroupRepository) UpsertGroup(group *models.Group) error {
	var existing models.Group
	result := r.db.Where("chat_id = ?", group.ChatID).First(&existing)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			group.CreatedAt = time.Now()
			group.UpdatedAt = time.Now()
			return r.db.Create(group).Error
		}
		return result.Error
	}

	group.ID = existing.ID
	group.CreatedAt = existing.CreatedAt
	group.UpdatedAt = time.Now()

	return r.db.Save(group).Error
}

// DeleteGroup removes a group record by chat id
func (r *GroupRepository) DeleteGroup(chatID int64) error {
	result := r.db.Where("chat_id = ?", chatID).Delete(&models.Group{})
	return result.Error
}

// SetMuted updates the mute flag for a group
func (r *GroupRepository) SetMuted(chatID int64, muted bool) error {
	result := r.db.Model(&models.Group{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]interface{}{"muted": muted, "updated_at": time.Now()})
	return result.Error
}
