package models

import "time"

// AdminRecord is a bot-level admin granted by a master admin.
// Distinct from platform chat-admin status, which is queried live.
type AdminRecord struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	AdminID         int64  `gorm:"uniqueIndex;not null"`
	Username        string `gorm:"type:varchar(255)"`
	AddedByID       int64  `gorm:"not null"`
	AddedByUsername string `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
}
