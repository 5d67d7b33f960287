package moderation

import (
	"errors"
	"fmt"
	"strings"
)

// ActionKind is the moderation action being synchronized.
type ActionKind string

const (
	ActionBan   ActionKind = "ban"
	ActionKick  ActionKind = "kick"
	ActionUnban ActionKind = "unban"
)

// Title returns the heading used in replies and notifications.
func (k ActionKind) Title() string {
	switch k {
	case ActionBan:
		return "🚷 Ban"
	case ActionKick:
		return "👟 Kick"
	case ActionUnban:
		return "✅ Unban"
	default:
		return string(k)
	}
}

// ErrNotBanned marks an unban target that has no active ban record.
var ErrNotBanned = errors.New("user is not banned")

// Request is one resolved moderation command. Targets are deduplicated
// and kept in first-occurrence order; the request lives only for the
// duration of one command.
type Request struct {
	Kind        ActionKind
	Targets     []int64
	Reason      string
	OriginChat  int64
	OriginTitle string
	ActorID     int64
	ActorName   string
}

// TargetResult is the per-target outcome of the local apply stage.
type TargetResult struct {
	UserID   int64
	Username string
	Err      error
}

// GroupOutcome is the per-group outcome of the fan-out stage.
type GroupOutcome struct {
	GroupID  int64
	Applied  bool
	Notified bool
	Err      error
}

// Report aggregates one request's outcomes for the reply to the actor.
type Report struct {
	Kind        ActionKind
	Succeeded   []TargetResult
	Failed      []TargetResult
	Groups      []GroupOutcome
	Reason      string
	OriginTitle string
	NoTargets   bool
}

// Text renders the reply sent in the origin chat. It is sent regardless
// of the origin group's mute flag.
func (r *Report) Text() string {
	if r.NoTargets {
		return "No valid target. Specify a user via reply, id or @username."
	}

	lines := []string{r.Kind.Title()}
	for _, res := range r.Succeeded {
		lines = append(lines, fmt.Sprintf("%s (%d)", res.Username, res.UserID))
	}
	var notBanned, failed []string
	for _, res := range r.Failed {
		id := fmt.Sprintf("%d", res.UserID)
		if errors.Is(res.Err, ErrNotBanned) {
			notBanned = append(notBanned, id)
		} else {
			failed = append(failed, id)
		}
	}
	if len(notBanned) > 0 {
		lines = append(lines, "Not banned: "+strings.Join(notBanned, ", "))
	}
	if len(failed) > 0 {
		lines = append(lines, "Failed: "+strings.Join(failed, ", "))
	}

	return strings.Join(lines, "\n") + fmt.Sprintf("\n[%s][%s]", r.Reason, r.OriginTitle)
}

// userLines renders "name (id)" lines for remote-group notifications.
func userLines(users []TargetResult) string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s (%d)", name, u.UserID))
	}
	return strings.Join(lines, "\n")
}
