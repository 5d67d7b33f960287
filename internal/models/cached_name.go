package models

// CachedName maps a user id to the last display name seen for it,
// so later @-mention command arguments can be resolved back to ids.
type CachedName struct {
	UserID   int64  `gorm:"primaryKey"`
	Username string `gorm:"index;type:varchar(255)"`
}
