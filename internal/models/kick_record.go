package models

import "time"

// KickRecord is an event log entry. Kicks carry no standing state,
// so unlike BanRecord these rows are never consulted or deleted.
type KickRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UserID        int64  `gorm:"index;not null"`
	Username      string `gorm:"type:varchar(255)"`
	AdminID       int64  `gorm:"not null"`
	AdminUsername string `gorm:"type:varchar(255)"`
	Reason        string `gorm:"type:text"`
	OriginChatID  int64  `gorm:"index"`
	CreatedAt     time.Time
}
