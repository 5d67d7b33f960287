package moderation

import (
	"context"
	"fmt"
	"sync"

	"tg-modsync/internal/crash"
	"tg-modsync/internal/logger"
	"tg-modsync/internal/models"
	"tg-modsync/internal/platform"
)

// Engine executes one moderation request end to end: apply in the
// origin chat, persist the outcome, fan out to every registered group,
// and hand the result to the audit log.
type Engine struct {
	platform platform.Client
	groups   GroupStore
	bans     BanStore
	kicks    KickStore
	audit    *AuditLog
}

func NewEngine(client platform.Client, groups GroupStore, bans BanStore, kicks KickStore, audit *AuditLog) *Engine {
	return &Engine{platform: client, groups: groups, bans: bans, kicks: kicks, audit: audit}
}

// Execute runs the full synchronization pipeline for one request.
// Failures are isolated per target and per group; the returned report
// always describes what actually happened.
func (e *Engine) Execute(ctx context.Context, req *Request) *Report {
	report := &Report{
		Kind:        req.Kind,
		Reason:      req.Reason,
		OriginTitle: req.OriginTitle,
	}

	targets := e.filterTargets(req)
	if len(targets) == 0 {
		report.NoTargets = true
		return report
	}

	results := e.applyLocal(ctx, req, targets)
	for _, res := range results {
		if res.Err != nil {
			report.Failed = append(report.Failed, res)
		} else {
			report.Succeeded = append(report.Succeeded, res)
		}
	}

	e.record(req, report.Succeeded)

	if len(report.Succeeded) > 0 {
		report.Groups = e.fanOut(ctx, req, report.Succeeded)
	}

	e.audit.RecordAction(ctx, req, report.Succeeded)
	return report
}

// filterTargets drops the actor and the bot itself from the target
// list. Silently: a self-target is not an error, just never acted on.
func (e *Engine) filterTargets(req *Request) []int64 {
	botID := e.platform.BotID()
	out := make([]int64, 0, len(req.Targets))
	for _, id := range req.Targets {
		if id == req.ActorID || id == botID {
			logger.Infof("Skipping protected target %d for %s in chat %d", id, req.Kind, req.OriginChat)
			continue
		}
		out = append(out, id)
	}
	return out
}

// applyLocal applies the action to each target in the origin chat
// concurrently. Result order matches target order.
func (e *Engine) applyLocal(ctx context.Context, req *Request, targets []int64) []TargetResult {
	results := make([]TargetResult, len(targets))

	var wg sync.WaitGroup
	for i, userID := range targets {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			defer crash.RecoverWithStack("moderation.applyLocal")
			results[i] = e.applyTarget(ctx, req, userID)
		}(i, userID)
	}
	wg.Wait()

	return results
}

func (e *Engine) applyTarget(ctx context.Context, req *Request, userID int64) TargetResult {
	res := TargetResult{UserID: userID}

	member, err := e.platform.GetChatMember(ctx, req.OriginChat, userID)
	if err != nil {
		logger.Warningf("Error looking up member %d in chat %d: %v", userID, req.OriginChat, err)
		res.Err = fmt.Errorf("member lookup: %w", err)
		return res
	}
	res.Username = member.DisplayName()

	switch req.Kind {
	case ActionBan, ActionKick:
		if member.IsPrivileged() {
			res.Err = fmt.Errorf("user %d is an administrator of the chat", userID)
			return res
		}
		if err := e.platform.BanChatMember(ctx, req.OriginChat, userID); err != nil {
			res.Err = err
			return res
		}
		if req.Kind == ActionKick {
			// A kick is ban-then-unban so the user may rejoin.
			if err := e.platform.UnbanChatMember(ctx, req.OriginChat, userID); err != nil {
				res.Err = err
				return res
			}
		}
	case ActionUnban:
		banned, err := e.bans.IsBanned(userID)
		if err != nil {
			res.Err = err
			return res
		}
		if !banned {
			res.Err = ErrNotBanned
			return res
		}
		if err := e.platform.UnbanChatMember(ctx, req.OriginChat, userID); err != nil {
			res.Err = err
			return res
		}
	default:
		res.Err = fmt.Errorf("unknown action %q", req.Kind)
	}

	return res
}

// record persists successful outcomes. Store failures are logged and do
// not undo the platform action.
func (e *Engine) record(req *Request, succeeded []TargetResult) {
	for _, res := range succeeded {
		var err error
		switch req.Kind {
		case ActionBan:
			err = e.bans.CreateBan(&models.BanRecord{
				UserID:        res.UserID,
				Username:      res.Username,
				AdminID:       req.ActorID,
				AdminUsername: req.ActorName,
				Reason:        req.Reason,
				OriginChatID:  req.OriginChat,
			})
		case ActionKick:
			err = e.kicks.CreateKick(&models.KickRecord{
				UserID:        res.UserID,
				Username:      res.Username,
				AdminID:       req.ActorID,
				AdminUsername: req.ActorName,
				Reason:        req.Reason,
				OriginChatID:  req.OriginChat,
			})
		case ActionUnban:
			err = e.bans.DeleteBan(res.UserID)
		}
		if err != nil {
			logger.Warningf("Error recording %s of user %d: %v", req.Kind, res.UserID, err)
		}
	}
}

// fanOut applies every succeeded target to all registered groups except
// the origin. Each chat id is visited at most once per request even if
// the registry holds duplicate rows. Group failures are isolated.
func (e *Engine) fanOut(ctx context.Context, req *Request, succeeded []TargetResult) []GroupOutcome {
	groups, err := e.groups.ListGroups()
	if err != nil {
		logger.Errorf("Error listing groups for %s fan-out: %v", req.Kind, err)
		return nil
	}

	visited := map[int64]struct{}{req.OriginChat: {}}
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []GroupOutcome
	)

	for _, group := range groups {
		if _, ok := visited[group.ChatID]; ok {
			continue
		}
		visited[group.ChatID] = struct{}{}

		wg.Add(1)
		go func(group *models.Group) {
			defer wg.Done()
			defer crash.RecoverWithStack("moderation.fanOut")
			outcome := e.applyGroup(ctx, req, group, succeeded)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(group)
	}
	wg.Wait()

	return outcomes
}

func (e *Engine) applyGroup(ctx context.Context, req *Request, group *models.Group, succeeded []TargetResult) GroupOutcome {
	outcome := GroupOutcome{GroupID: group.ChatID}

	applied := make([]TargetResult, 0, len(succeeded))
	for _, res := range succeeded {
		var err error
		switch req.Kind {
		case ActionBan:
			err = e.platform.BanChatMember(ctx, group.ChatID, res.UserID)
		case ActionKick:
			err = e.platform.BanChatMember(ctx, group.ChatID, res.UserID)
			if err == nil {
				err = e.platform.UnbanChatMember(ctx, group.ChatID, res.UserID)
			}
		case ActionUnban:
			err = e.platform.UnbanChatMember(ctx, group.ChatID, res.UserID)
		}
		if err != nil {
			logger.Warningf("Error applying %s of user %d in group %d: %v", req.Kind, res.UserID, group.ChatID, err)
			outcome.Err = err
			continue
		}
		applied = append(applied, res)
	}
	outcome.Applied = len(applied) > 0

	// The notification names only the users actually actioned in this
	// group, not everything that succeeded at the origin.
	if outcome.Applied && !group.Muted {
		reason := req.Reason
		if reason == "" {
			reason = "none"
		}
		text := fmt.Sprintf("%s\n%s\n[%s][%s]", req.Kind.Title(), userLines(applied), req.OriginTitle, reason)
		if err := e.platform.SendMessage(ctx, group.ChatID, text); err != nil {
			logger.Warningf("Error notifying group %d: %v", group.ChatID, err)
		} else {
			outcome.Notified = true
		}
	}

	return outcome
}
