package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-modsync/internal/models"
)

func TestFileStoreGroupLifecycle(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.UpsertGroup(&models.Group{ChatID: -100, Title: "Origin", AdminID: 1}))
	require.NoError(t, s.UpsertGroup(&models.Group{ChatID: -200, Title: "Other", AdminID: 1}))

	groups, err := s.ListGroups()
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	// Upsert of a known chat replaces instead of duplicating.
	require.NoError(t, s.UpsertGroup(&models.Group{ChatID: -100, Title: "Renamed", AdminID: 1}))
	groups, err = s.ListGroups()
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	g, err := s.GetGroup(-100)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Renamed", g.Title)

	require.NoError(t, s.SetMuted(-100, true))
	g, err = s.GetGroup(-100)
	require.NoError(t, err)
	assert.True(t, g.Muted)

	require.NoError(t, s.DeleteGroup(-100))
	g, err = s.GetGroup(-100)
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestFileStoreSetMutedUnknownGroup(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.SetMuted(-999, true))
}

func TestFileStoreBanRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	banned, err := s.IsBanned(42)
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, s.CreateBan(&models.BanRecord{UserID: 42, Username: "spammer", Reason: "spam"}))
	banned, err = s.IsBanned(42)
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, s.DeleteBan(42))
	banned, err = s.IsBanned(42)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.UpsertGroup(&models.Group{ChatID: -100, Title: "Origin"}))
	require.NoError(t, s.CreateBan(&models.BanRecord{UserID: 42, Username: "spammer"}))
	require.NoError(t, s.CreateAdmin(&models.AdminRecord{AdminID: 7}))
	require.NoError(t, s.CacheName(42, "spammer"))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	groups, err := reopened.ListGroups()
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	banned, err := reopened.IsBanned(42)
	require.NoError(t, err)
	assert.True(t, banned)

	isAdmin, err := reopened.IsAdmin(7)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	id, ok, err := reopened.LookupID("spammer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestFileStoreAdminGrantIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.CreateAdmin(&models.AdminRecord{AdminID: 7, AddedByID: 1}))
	require.NoError(t, s.CreateAdmin(&models.AdminRecord{AdminID: 7, AddedByID: 2}))

	isAdmin, err := s.IsAdmin(7)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, s.DeleteAdmin(7))
	isAdmin, err = s.IsAdmin(7)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestFileStoreNameCacheLatestWins(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.CacheName(42, "oldname"))
	require.NoError(t, s.CacheName(42, "newname"))

	_, ok, err := s.LookupID("oldname")
	require.NoError(t, err)
	assert.False(t, ok)

	id, ok, err := s.LookupID("newname")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
