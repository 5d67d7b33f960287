package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tg-modsync/internal/models"
)

// File names used under the data directory.
const (
	groupsFile = "groups.json"
	bansFile   = "banned_users.json"
	adminsFile = "admins.json"
	kicksFile  = "kicked_users.json"
	namesFile  = "username_cache.json"
)

// FileStore keeps all moderation state in JSON files under a data
// directory. It is the zero-dependency alternative to the SQL
// repositories for small deployments. Every mutation rewrites the
// affected file; reads serve from memory.
type FileStore struct {
	mu  sync.RWMutex
	dir string

	groups []*models.Group
	bans   map[int64]*models.BanRecord
	admins map[int64]*models.AdminRecord
	kicks  []*models.KickRecord
	names  map[int64]string
}

// NewFileStore loads existing state from dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		bans:   make(map[int64]*models.BanRecord),
		admins: make(map[int64]*models.AdminRecord),
		names:  make(map[int64]string),
	}

	if err := s.loadFile(groupsFile, &s.groups); err != nil {
		return nil, err
	}
	if err := s.loadFile(bansFile, &s.bans); err != nil {
		return nil, err
	}
	if err := s.loadFile(adminsFile, &s.admins); err != nil {
		return nil, err
	}
	if err := s.loadFile(kicksFile, &s.kicks); err != nil {
		return nil, err
	}
	if err := s.loadFile(namesFile, &s.names); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) loadFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// saveFile writes via a temp file so a crash mid-write never leaves a
// truncated state file behind.
func (s *FileStore) saveFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

// ListGroups returns all registered groups
func (s *FileStore) ListGroups() ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Group(nil), s.groups...), nil
}

// GetGroup returns the group for a chat id, nil when not registered
func (s *FileStore) GetGroup(chatID int64) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.ChatID == chatID {
			return g, nil
		}
	}
	return nil, nil
}

// UpsertGroup creates or updates a group record
func (s *FileStore) UpsertGroup(group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group.UpdatedAt = time.Now()
	for i, g := range s.groups {
		if g.ChatID == group.ChatID {
			group.CreatedAt = g.CreatedAt
			s.groups[i] = group
			return s.saveFile(groupsFile, s.groups)
		}
	}
	group.CreatedAt = group.UpdatedAt
	s.groups = append(s.groups, group)
	return s.saveFile(groupsFile, s.groups)
}

// DeleteGroup removes a group record by chat id
func (s *FileStore) DeleteGroup(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.groups[:0]
	for _, g := range s.groups {
		if g.ChatID != chatID {
			out = append(out, g)
		}
	}
	s.groups = out
	return s.saveFile(groupsFile, s.groups)
}

// SetMuted updates the mute flag for a group
func (s *FileStore) SetMuted(chatID int64, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.ChatID == chatID {
			g.Muted = muted
			g.UpdatedAt = time.Now()
			return s.saveFile(groupsFile, s.groups)
		}
	}
	return fmt.Errorf("group %d is not registered", chatID)
}

// CreateBan stores a ban record, replacing any previous one for the user
func (s *FileStore) CreateBan(record *models.BanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.bans[record.UserID] = record
	return s.saveFile(bansFile, s.bans)
}

// DeleteBan removes the ban record for a user
func (s *FileStore) DeleteBan(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bans, userID)
	return s.saveFile(bansFile, s.bans)
}

// IsBanned reports whether the user has an active ban record
func (s *FileStore) IsBanned(userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bans[userID]
	return ok, nil
}

// CreateAdmin stores an admin record; granting twice is not an error
func (s *FileStore) CreateAdmin(record *models.AdminRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[record.AdminID]; ok {
		return nil
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.admins[record.AdminID] = record
	return s.saveFile(adminsFile, s.admins)
}

// DeleteAdmin removes the admin record for a user
func (s *FileStore) DeleteAdmin(adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, adminID)
	return s.saveFile(adminsFile, s.admins)
}

// IsAdmin reports whether the user holds an admin record
func (s *FileStore) IsAdmin(adminID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[adminID]
	return ok, nil
}

// CreateKick appends a kick event record
func (s *FileStore) CreateKick(record *models.KickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.kicks = append(s.kicks, record)
	return s.saveFile(kicksFile, s.kicks)
}

// CacheName stores the latest display name seen for a user
func (s *FileStore) CacheName(userID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[userID] = username
	return s.saveFile(namesFile, s.names)
}

// LookupID resolves a cached username to a user id
func (s *FileStore) LookupID(username string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, name := range s.names {
		if name == username {
			return id, true, nil
		}
	}
	return 0, false, nil
}
