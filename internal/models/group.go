package models

import "time"

// Group is a chat registered for moderation synchronization.
// At most one row exists per ChatID; the mute flag suppresses
// notifications for synced actions, never the actions themselves.
type Group struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ChatID    int64  `gorm:"uniqueIndex;not null"`
	Title     string `gorm:"type:varchar(255)"`
	AdminID   int64  `gorm:"not null"`
	Muted     bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
