package moderation

import (
	"strconv"
	"strings"

	"tg-modsync/internal/logger"
	"tg-modsync/internal/platform"
)

// Invocation is a raw command invocation before target resolution.
type Invocation struct {
	// Args are the whitespace tokens following the command word.
	Args []string
	// ReplyTo is the author of the replied-to message, when the command
	// was issued as a reply.
	ReplyTo *platform.Member
}

// Resolver turns a command invocation into a normalized target list and
// a free-text reason.
type Resolver struct {
	names NameCache
}

func NewResolver(names NameCache) *Resolver {
	return &Resolver{names: names}
}

// Resolve extracts target user ids and the trailing reason.
//
// A reply-context command targets the replied-to author and caches their
// display name for later @-mention lookups. Otherwise tokens are scanned
// left to right: all-digit tokens are literal ids, "@" tokens are cache
// lookups (misses are dropped silently), and the first token matching
// neither ends the scan; the remainder becomes the reason. Targets are
// deduplicated preserving first-occurrence order.
func (r *Resolver) Resolve(inv Invocation) ([]int64, string) {
	if inv.ReplyTo != nil {
		name := inv.ReplyTo.DisplayName()
		if err := r.names.CacheName(inv.ReplyTo.UserID, name); err != nil {
			logger.Warningf("Error caching username for user %d: %v", inv.ReplyTo.UserID, err)
		}
		return []int64{inv.ReplyTo.UserID}, strings.Join(inv.Args, " ")
	}

	var targets []int64
	reasonStart := len(inv.Args)

	for i, arg := range inv.Args {
		if isDigits(arg) {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err == nil {
				targets = append(targets, id)
			}
			continue
		}
		if strings.HasPrefix(arg, "@") {
			id, ok, err := r.names.LookupID(strings.TrimPrefix(arg, "@"))
			if err != nil {
				logger.Warningf("Error resolving mention %s: %v", arg, err)
			} else if ok {
				targets = append(targets, id)
			}
			// Unresolvable mentions are dropped, not errors.
			continue
		}
		reasonStart = i
		break
	}

	reason := ""
	if reasonStart < len(inv.Args) {
		reason = strings.Join(inv.Args[reasonStart:], " ")
	}

	return dedupe(targets), reason
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
