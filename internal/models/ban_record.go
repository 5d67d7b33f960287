package models

import "time"

// BanRecord is the sole authority for "is this user banned":
// a row exists while the ban is active and is deleted on unban.
type BanRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UserID        int64  `gorm:"uniqueIndex;not null"`
	Username      string `gorm:"type:varchar(255)"`
	AdminID       int64  `gorm:"not null"`
	AdminUsername string `gorm:"type:varchar(255)"`
	Reason        string `gorm:"type:text"`
	OriginChatID  int64  `gorm:"index"`
	CreatedAt     time.Time
}
