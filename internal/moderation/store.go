package moderation

import "tg-modsync/internal/models"

// Store contracts consumed by the moderation layer. The SQL repositories
// and the file-backed store are alternative adapters behind these.

// GroupStore is the registry of chats enrolled in synchronization.
type GroupStore interface {
	ListGroups() ([]*models.Group, error)
	// GetGroup returns (nil, nil) when the chat is not registered.
	GetGroup(chatID int64) (*models.Group, error)
	UpsertGroup(group *models.Group) error
	DeleteGroup(chatID int64) error
	SetMuted(chatID int64, muted bool) error
}

// BanStore is the ledger of active bans. Row presence is the sole
// authority for "is this user banned".
type BanStore interface {
	CreateBan(record *models.BanRecord) error
	DeleteBan(userID int64) error
	IsBanned(userID int64) (bool, error)
}

// AdminStore is the roster of bot-level admins.
type AdminStore interface {
	CreateAdmin(record *models.AdminRecord) error
	DeleteAdmin(adminID int64) error
	IsAdmin(adminID int64) (bool, error)
}

// KickStore records kick events. Kicks are not standing state, so there
// is no read side.
type KickStore interface {
	CreateKick(record *models.KickRecord) error
}

// NameCache maps user ids to the last display name seen for them.
type NameCache interface {
	CacheName(userID int64, username string) error
	// LookupID resolves a cached username; ok is false on a miss.
	LookupID(username string) (int64, bool, error)
}
