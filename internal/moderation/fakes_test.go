package moderation

import (
	"context"
	"fmt"
	"sync"

	"tg-modsync/internal/models"
	"tg-modsync/internal/platform"
)

// fakePlatform is an in-memory platform.Client recording every call.
type fakePlatform struct {
	mu sync.Mutex

	botID   int64
	members map[string]platform.Member // "chatID/userID"
	failOps map[string]error           // "op/chatID/userID" or "send/chatID"

	bans     []string // "chatID/userID"
	unbans   []string
	messages map[int64][]string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		botID:    999,
		members:  make(map[string]platform.Member),
		failOps:  make(map[string]error),
		messages: make(map[int64][]string),
	}
}

func memberKey(chatID, userID int64) string {
	return fmt.Sprintf("%d/%d", chatID, userID)
}

func (f *fakePlatform) addMember(chatID int64, m platform.Member) {
	f.members[memberKey(chatID, m.UserID)] = m
}

func (f *fakePlatform) failOn(op string, chatID, userID int64, err error) {
	f.failOps[fmt.Sprintf("%s/%d/%d", op, chatID, userID)] = err
}

func (f *fakePlatform) opErr(op string, chatID, userID int64) error {
	return f.failOps[fmt.Sprintf("%s/%d/%d", op, chatID, userID)]
}

func (f *fakePlatform) BotID() int64 { return f.botID }

func (f *fakePlatform) GetChatMember(_ context.Context, chatID, userID int64) (platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.opErr("member", chatID, userID); err != nil {
		return platform.Member{}, err
	}
	m, ok := f.members[memberKey(chatID, userID)]
	if !ok {
		return platform.Member{UserID: userID, Status: "member"}, nil
	}
	return m, nil
}

func (f *fakePlatform) BanChatMember(_ context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.opErr("ban", chatID, userID); err != nil {
		return err
	}
	f.bans = append(f.bans, memberKey(chatID, userID))
	return nil
}

func (f *fakePlatform) UnbanChatMember(_ context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.opErr("unban", chatID, userID); err != nil {
		return err
	}
	f.unbans = append(f.unbans, memberKey(chatID, userID))
	return nil
}

func (f *fakePlatform) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOps[fmt.Sprintf("send/%d", chatID)]; err != nil {
		return err
	}
	f.messages[chatID] = append(f.messages[chatID], text)
	return nil
}

func (f *fakePlatform) ReplyMessage(ctx context.Context, chatID int64, _ int, text string) error {
	return f.SendMessage(ctx, chatID, text)
}

func (f *fakePlatform) CreateInviteLink(_ context.Context, chatID int64) (string, error) {
	return fmt.Sprintf("https://t.me/+invite%d", chatID), nil
}

func (f *fakePlatform) GetChat(_ context.Context, chatID int64) (platform.Chat, error) {
	return platform.Chat{ID: chatID, Title: fmt.Sprintf("chat %d", chatID)}, nil
}

func (f *fakePlatform) banCount(chatID, userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.bans {
		if k == memberKey(chatID, userID) {
			n++
		}
	}
	return n
}

func (f *fakePlatform) unbanCount(chatID, userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.unbans {
		if k == memberKey(chatID, userID) {
			n++
		}
	}
	return n
}

func (f *fakePlatform) sentTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages[chatID]...)
}

// fakeStore implements every store interface in memory.
type fakeStore struct {
	mu sync.Mutex

	groups []*models.Group
	bans   map[int64]*models.BanRecord
	admins map[int64]*models.AdminRecord
	kicks  []*models.KickRecord
	names  map[string]int64

	listErr  error
	adminErr error
	banErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bans:   make(map[int64]*models.BanRecord),
		admins: make(map[int64]*models.AdminRecord),
		names:  make(map[string]int64),
	}
}

func (s *fakeStore) ListGroups() ([]*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]*models.Group(nil), s.groups...), nil
}

func (s *fakeStore) GetGroup(chatID int64) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.ChatID == chatID {
			return g, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) UpsertGroup(group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.groups {
		if g.ChatID == group.ChatID {
			s.groups[i] = group
			return nil
		}
	}
	s.groups = append(s.groups, group)
	return nil
}

func (s *fakeStore) DeleteGroup(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.groups[:0]
	for _, g := range s.groups {
		if g.ChatID != chatID {
			out = append(out, g)
		}
	}
	s.groups = out
	return nil
}

func (s *fakeStore) SetMuted(chatID int64, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.ChatID == chatID {
			g.Muted = muted
		}
	}
	return nil
}

func (s *fakeStore) CreateBan(record *models.BanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banErr != nil {
		return s.banErr
	}
	s.bans[record.UserID] = record
	return nil
}

func (s *fakeStore) DeleteBan(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bans, userID)
	return nil
}

func (s *fakeStore) IsBanned(userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banErr != nil {
		return false, s.banErr
	}
	_, ok := s.bans[userID]
	return ok, nil
}

func (s *fakeStore) CreateAdmin(record *models.AdminRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[record.AdminID] = record
	return nil
}

func (s *fakeStore) DeleteAdmin(adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, adminID)
	return nil
}

func (s *fakeStore) IsAdmin(adminID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adminErr != nil {
		return false, s.adminErr
	}
	_, ok := s.admins[adminID]
	return ok, nil
}

func (s *fakeStore) CreateKick(record *models.KickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kicks = append(s.kicks, record)
	return nil
}

func (s *fakeStore) CacheName(userID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[username] = userID
	return nil
}

func (s *fakeStore) LookupID(username string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.names[username]
	return id, ok, nil
}
