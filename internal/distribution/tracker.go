package distribution

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crosswatch/crosswatch/internal/cache"
	"github.com/crosswatch/crosswatch/pkg/logging"
)

// Tracker answers which communities track a given player. It is the
// resolver's external collaborator; any error from it makes the resolver
// fail closed to the origin community.
type Tracker interface {
	TracksPlayer(ctx context.Context, playerID string) ([]int64, error)
}

// HistoryTracker derives tracking membership from the report history: a
// community tracks a player when it has recorded a response to one of the
// player's reports, or holds a ban on the player through one of its
// enabled integrations.
type HistoryTracker struct {
	db *gorm.DB
}

// NewHistoryTracker creates a history-backed tracker
func NewHistoryTracker(db *gorm.DB) *HistoryTracker {
	return &HistoryTracker{db: db}
}

// TracksPlayer implements Tracker
func (t *HistoryTracker) TracksPlayer(ctx context.Context, playerID string) ([]int64, error) {
	var responded []int64
	err := t.db.WithContext(ctx).
		Table("player_report_responses").
		Distinct("player_report_responses.community_id").
		Joins("JOIN player_reports ON player_reports.id = player_report_responses.pr_id").
		Where("player_reports.player_id = ?", playerID).
		Pluck("player_report_responses.community_id", &responded).Error
	if err != nil {
		return nil, err
	}

	var banning []int64
	err = t.db.WithContext(ctx).
		Table("player_bans").
		Distinct("integrations.community_id").
		Joins("JOIN integrations ON integrations.id = player_bans.integration_id").
		Where("player_bans.player_id = ? AND integrations.enabled = ?", playerID, true).
		Pluck("integrations.community_id", &banning).Error
	if err != nil {
		return nil, err
	}

	return mergeIDs(responded, banning), nil
}

// mergeIDs unions two community id lists, dropping duplicates.
func mergeIDs(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, ids := range [][]int64{a, b} {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CachedTracker decorates a Tracker with a redis TTL cache. Cache misses
// and cache faults both fall through to the inner tracker; only the inner
// tracker's errors reach the resolver.
type CachedTracker struct {
	inner  Tracker
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTracker wraps a tracker with caching
func NewCachedTracker(inner Tracker, c *cache.Cache, ttl time.Duration) *CachedTracker {
	return &CachedTracker{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logging.WithComponent("tracking-cache"),
	}
}

// TracksPlayer implements Tracker
func (t *CachedTracker) TracksPlayer(ctx context.Context, playerID string) ([]int64, error) {
	key := "tracking:" + cache.HashKey(playerID)

	if cached, err := t.cache.Get(ctx, key); err == nil {
		var ids []int64
		if err := json.Unmarshal([]byte(cached), &ids); err == nil {
			return ids, nil
		}
	}

	ids, err := t.inner.TracksPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(ids); err == nil {
		if err := t.cache.Set(ctx, key, string(payload), t.ttl); err != nil && err != cache.ErrCacheDisabled {
			t.logger.Warn("Failed to cache tracking lookup", zap.Error(err))
		}
	}

	return ids, nil
}
