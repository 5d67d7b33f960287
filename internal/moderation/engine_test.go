package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-modsync/internal/models"
	"tg-modsync/internal/platform"
)

const (
	originChat   int64 = -100
	auditChannel int64 = -900
)

func newTestEngine(store *fakeStore, fp *fakePlatform) *Engine {
	audit := NewAuditLog(fp, store, []int64{auditChannel})
	return NewEngine(fp, store, store, store, audit)
}

func banRequest(targets ...int64) *Request {
	return &Request{
		Kind:        ActionBan,
		Targets:     targets,
		Reason:      "spam",
		OriginChat:  originChat,
		OriginTitle: "Origin",
		ActorID:     1,
		ActorName:   "mod",
	}
}

func TestExecuteBanFansOutToAllGroups(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{
		{ChatID: originChat, Title: "Origin"},
		{ChatID: -200, Title: "G1"},
		{ChatID: -300, Title: "G2"},
	}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(42))

	require.Len(t, report.Succeeded, 1)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, fp.banCount(originChat, 42))
	assert.Equal(t, 1, fp.banCount(-200, 42))
	assert.Equal(t, 1, fp.banCount(-300, 42))

	banned, err := store.IsBanned(42)
	require.NoError(t, err)
	assert.True(t, banned)

	// Remote groups are notified once each; the origin gets no fan-out
	// notification.
	for _, chatID := range []int64{-200, -300} {
		msgs := fp.sentTo(chatID)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "spammer (42)")
		assert.Contains(t, msgs[0], "[spam]")
	}
	assert.Empty(t, fp.sentTo(originChat))
}

func TestExecuteSkipsActorAndBot(t *testing.T) {
	store := newFakeStore()
	fp := newFakePlatform()

	req := banRequest(1, fp.BotID())
	report := newTestEngine(store, fp).Execute(context.Background(), req)

	assert.True(t, report.NoTargets)
	assert.Empty(t, fp.bans)
	assert.Contains(t, report.Text(), "No valid target")
}

func TestExecuteRejectsPrivilegedTarget(t *testing.T) {
	store := newFakeStore()
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 7, Username: "owner", Status: platform.StatusCreator})

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(7))

	assert.Empty(t, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, int64(7), report.Failed[0].UserID)
	assert.Equal(t, 0, fp.banCount(originChat, 7))
	// Nothing succeeded, so no fan-out and no audit entry.
	assert.Empty(t, fp.sentTo(auditChannel))
}

func TestExecutePartialFailureIsolatesTargets(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: -200, Title: "G1"}}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 10, Username: "a", Status: "member"})
	fp.addMember(originChat, platform.Member{UserID: 11, Username: "b", Status: "member"})
	fp.addMember(originChat, platform.Member{UserID: 12, Username: "c", Status: "member"})
	fp.failOn("ban", originChat, 11, errors.New("rights insufficient"))

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(10, 11, 12))

	require.Len(t, report.Succeeded, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, int64(11), report.Failed[0].UserID)

	// Only the successes fan out.
	assert.Equal(t, 1, fp.banCount(-200, 10))
	assert.Equal(t, 0, fp.banCount(-200, 11))
	assert.Equal(t, 1, fp.banCount(-200, 12))

	text := report.Text()
	assert.Contains(t, text, "Failed: 11")
	assert.Contains(t, text, "a (10)")
	assert.Contains(t, text, "c (12)")
}

func TestExecuteKickBansThenUnbans(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: -200, Title: "G1"}}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "drifter", Status: "member"})

	req := banRequest(42)
	req.Kind = ActionKick
	report := newTestEngine(store, fp).Execute(context.Background(), req)

	require.Len(t, report.Succeeded, 1)
	assert.Equal(t, 1, fp.banCount(originChat, 42))
	assert.Equal(t, 1, fp.unbanCount(originChat, 42))
	assert.Equal(t, 1, fp.banCount(-200, 42))
	assert.Equal(t, 1, fp.unbanCount(-200, 42))

	// A kick leaves no standing ban, only an event record.
	banned, err := store.IsBanned(42)
	require.NoError(t, err)
	assert.False(t, banned)
	require.Len(t, store.kicks, 1)
	assert.Equal(t, int64(42), store.kicks[0].UserID)
}

func TestExecuteUnbanOfNotBannedIsNoop(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: -200, Title: "G1"}}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "clean", Status: "member"})

	req := banRequest(42)
	req.Kind = ActionUnban
	report := newTestEngine(store, fp).Execute(context.Background(), req)

	assert.Empty(t, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[0].Err, ErrNotBanned)
	assert.Contains(t, report.Text(), "Not banned: 42")
	assert.Empty(t, fp.unbans)
	assert.Empty(t, report.Groups)
	assert.Empty(t, fp.sentTo(-200))
}

func TestExecuteUnbanClearsRecordAndFansOut(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: -200, Title: "G1"}}
	store.bans[42] = &models.BanRecord{UserID: 42}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "pardoned", Status: "member"})

	req := banRequest(42)
	req.Kind = ActionUnban
	report := newTestEngine(store, fp).Execute(context.Background(), req)

	require.Len(t, report.Succeeded, 1)
	assert.Equal(t, 1, fp.unbanCount(originChat, 42))
	assert.Equal(t, 1, fp.unbanCount(-200, 42))

	banned, err := store.IsBanned(42)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestFanOutVisitsDuplicateRegistryRowsOnce(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{
		{ChatID: -200, Title: "G1"},
		{ChatID: -200, Title: "G1 stale row"},
		{ChatID: originChat, Title: "Origin"},
	}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(42))

	require.Len(t, report.Groups, 1)
	assert.Equal(t, 1, fp.banCount(-200, 42))
	assert.Len(t, fp.sentTo(-200), 1)
	// Origin is applied by the local stage only, never the fan-out.
	assert.Equal(t, 1, fp.banCount(originChat, 42))
}

func TestFanOutMutedGroupActsWithoutNotifying(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{
		{ChatID: -200, Title: "G2"},
		{ChatID: -300, Title: "G3", Muted: true},
	}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})

	newTestEngine(store, fp).Execute(context.Background(), banRequest(42))

	// The ban lands in both groups; only the unmuted one hears about it.
	assert.Equal(t, 1, fp.banCount(-200, 42))
	assert.Equal(t, 1, fp.banCount(-300, 42))
	assert.Len(t, fp.sentTo(-200), 1)
	assert.Empty(t, fp.sentTo(-300))
}

func TestFanOutNotificationListsOnlyUsersAppliedThere(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: -200, Title: "G1"}}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 10, Username: "a", Status: "member"})
	fp.addMember(originChat, platform.Member{UserID: 11, Username: "b", Status: "member"})
	fp.failOn("ban", -200, 11, errors.New("rights insufficient"))

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(10, 11))

	// Both targets succeed at the origin, only user 10 lands in G1.
	require.Len(t, report.Succeeded, 2)
	assert.Equal(t, 1, fp.banCount(-200, 10))
	assert.Equal(t, 0, fp.banCount(-200, 11))

	msgs := fp.sentTo(-200)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "a (10)")
	assert.NotContains(t, msgs[0], "b (11)")
	assert.NotContains(t, msgs[0], "(11)")
}

func TestFanOutGroupFailureIsIsolated(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{
		{ChatID: -200, Title: "G1"},
		{ChatID: -300, Title: "G2"},
	}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})
	fp.failOn("ban", -200, 42, errors.New("bot was kicked"))

	report := newTestEngine(store, fp).Execute(context.Background(), banRequest(42))

	require.Len(t, report.Groups, 2)
	assert.Equal(t, 0, fp.banCount(-200, 42))
	assert.Equal(t, 1, fp.banCount(-300, 42))
	assert.Len(t, fp.sentTo(-300), 1)
	assert.Empty(t, fp.sentTo(-200))
}

func TestAuditEntryEmittedUnlessOriginMuted(t *testing.T) {
	store := newFakeStore()
	store.groups = []*models.Group{{ChatID: originChat, Title: "Origin"}}
	fp := newFakePlatform()
	fp.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})

	newTestEngine(store, fp).Execute(context.Background(), banRequest(42))
	msgs := fp.sentTo(auditChannel)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "spammer (42)")

	// Mute the origin: the action still lands, the audit entry does not.
	store.groups[0].Muted = true
	fp2 := newFakePlatform()
	fp2.addMember(originChat, platform.Member{UserID: 42, Username: "spammer", Status: "member"})
	newTestEngine(store, fp2).Execute(context.Background(), banRequest(42))
	assert.Equal(t, 1, fp2.banCount(originChat, 42))
	assert.Empty(t, fp2.sentTo(auditChannel))
}

func TestReportTextTrailerHasReasonThenTitle(t *testing.T) {
	report := &Report{
		Kind:        ActionBan,
		Succeeded:   []TargetResult{{UserID: 42, Username: "spammer"}},
		Reason:      "spam",
		OriginTitle: "Origin",
	}
	text := report.Text()
	assert.True(t, strings.HasSuffix(text, "[spam][Origin]"), text)
}
