// Package distribution determines which communities are offered a chance
// to respond to each player named in a report.
package distribution

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/logging"
	"github.com/crosswatch/crosswatch/pkg/telemetry"
)

// Target is one (player-report, community) pair eligible to respond.
type Target struct {
	PRID        int64 `json:"pr_id"`
	CommunityID int64 `json:"community_id"`
}

// Resolver computes distribution targets
type Resolver struct {
	db      *gorm.DB
	tracker Tracker
	logger  *zap.Logger
}

// NewResolver creates a new distribution resolver
func NewResolver(db *gorm.DB, tracker Tracker) *Resolver {
	return &Resolver{
		db:      db,
		tracker: tracker,
		logger:  logging.WithComponent("distribution-resolver"),
	}
}

// ResolveTargets computes the deduplicated set of (player-report,
// community) pairs for a report. The origin community is always included
// for every player row; other communities must track the player and be
// active. A tracker failure fails closed: that player distributes to the
// origin community only. Nothing is persisted.
func (r *Resolver) ResolveTargets(ctx context.Context, reportID int64) ([]Target, error) {
	ctx, span := telemetry.StartSpan(ctx, "distribution.resolve")
	defer span.End()

	// The report's ID is its token's ID; the token carries the origin.
	var tok models.ReportToken
	if err := r.db.WithContext(ctx).First(&tok, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("report", reportID)
		}
		return nil, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", reportID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("report", reportID)
	}

	var prs []models.PlayerReport
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&prs).Error; err != nil {
		return nil, err
	}

	var activeCommunities []models.Community
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("is_active = ?", true).
		Find(&activeCommunities).Error; err != nil {
		return nil, err
	}
	active := make(map[int64]bool, len(activeCommunities))
	for _, c := range activeCommunities {
		active[c.ID] = true
	}

	tracked := make(map[int64][]int64, len(prs))
	for _, pr := range prs {
		ids, err := r.tracker.TracksPlayer(ctx, pr.PlayerID)
		if err != nil {
			// Fail closed: distribute this player to the origin only.
			r.logger.Warn("Tracking lookup failed, falling back to origin community",
				zap.String("player_id", pr.PlayerID),
				zap.Int64("report_id", reportID),
				zap.Error(err))
			continue
		}
		tracked[pr.ID] = ids
	}

	return computeTargets(prs, tok.CommunityID, tracked, active), nil
}

// computeTargets crosses each player-report with its resolved community
// set. The origin community is included unconditionally; every other
// candidate must be active. Output is deduplicated and ordered.
func computeTargets(prs []models.PlayerReport, origin int64, tracked map[int64][]int64, active map[int64]bool) []Target {
	seen := make(map[Target]bool)
	targets := make([]Target, 0, len(prs))

	add := func(t Target) {
		if seen[t] {
			return
		}
		seen[t] = true
		targets = append(targets, t)
	}

	for _, pr := range prs {
		add(Target{PRID: pr.ID, CommunityID: origin})
		for _, communityID := range tracked[pr.ID] {
			if communityID == origin || !active[communityID] {
				continue
			}
			add(Target{PRID: pr.ID, CommunityID: communityID})
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		if targets[i].PRID != targets[j].PRID {
			return targets[i].PRID < targets[j].PRID
		}
		return targets[i].CommunityID < targets[j].CommunityID
	})
	return targets
}
