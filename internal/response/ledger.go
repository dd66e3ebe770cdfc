// Package response records each community's disposition for a
// player-report, at most once per (player-report, community) pair.
package response

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/logging"
	"github.com/crosswatch/crosswatch/pkg/telemetry"
)

// RecordParams carries one community's disposition for one player-report.
type RecordParams struct {
	PRID         int64
	CommunityID  int64
	Banned       bool
	RejectReason string // empty unless the report was rejected
}

// Stats summarizes the responses recorded under one report.
type Stats struct {
	NumResponses  int            `json:"num_responses"`
	NumBanned     int            `json:"num_banned"`
	NumRejected   int            `json:"num_rejected"`
	RejectReasons map[string]int `json:"reject_reasons"`
}

// Ledger provides response persistence
type Ledger struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger creates a new response ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		db:     db,
		logger: logging.WithComponent("response-ledger"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// normalizeDisposition validates the banned/reject-reason combination. A
// banned response carries no reject reason; a rejection may carry one of
// the known reasons or none.
func normalizeDisposition(banned bool, reason string) (sql.NullString, error) {
	if reason == "" {
		return sql.NullString{}, nil
	}
	if banned {
		return sql.NullString{}, errors.New("banned response cannot carry a reject reason")
	}
	switch reason {
	case models.RejectReasonInsufficient, models.RejectReasonWrongPlayer:
		return sql.NullString{String: reason, Valid: true}, nil
	}
	return sql.NullString{}, errors.New("unknown reject reason")
}

// Record inserts the response for the pair. Exactly one caller ever wins
// the insert; every later call for the same pair observes AlreadyRecorded
// and changes nothing, making retries and duplicate distributions safe.
func (l *Ledger) Record(ctx context.Context, params RecordParams) (*models.PlayerReportResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "response.record")
	defer span.End()

	rejectReason, err := normalizeDisposition(params.Banned, params.RejectReason)
	if err != nil {
		return nil, apperr.Conflict("player_report_response", params.PRID, err.Error())
	}

	var pr models.PlayerReport
	if err := l.db.WithContext(ctx).First(&pr, params.PRID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("player_report", params.PRID)
		}
		return nil, err
	}
	var community models.Community
	if err := l.db.WithContext(ctx).First(&community, params.CommunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community", params.CommunityID)
		}
		return nil, err
	}

	row := &models.PlayerReportResponse{
		PRID:         params.PRID,
		CommunityID:  params.CommunityID,
		Banned:       params.Banned,
		RejectReason: rejectReason,
		CreatedAt:    l.now(),
	}

	// Concurrent recorders race on the (pr_id, community_id) unique
	// index; losers affect zero rows.
	res := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pr_id"}, {Name: "community_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.AlreadyRecorded(params.PRID, params.CommunityID)
	}

	l.logger.Info("Response recorded",
		zap.Int64("pr_id", params.PRID),
		zap.Int64("community_id", params.CommunityID),
		zap.Bool("banned", params.Banned))
	return row, nil
}

// HasResponded reports whether the pair already has a recorded response.
func (l *Ledger) HasResponded(ctx context.Context, prID, communityID int64) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.PlayerReportResponse{}).
		Where("pr_id = ? AND community_id = ?", prID, communityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResponsesFor returns every response recorded under a report.
func (l *Ledger) ResponsesFor(ctx context.Context, reportID int64) ([]models.PlayerReportResponse, error) {
	var responses []models.PlayerReportResponse
	err := l.db.WithContext(ctx).
		Joins("JOIN player_reports ON player_reports.id = player_report_responses.pr_id").
		Where("player_reports.report_id = ?", reportID).
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// StatsFor summarizes the responses recorded under a report.
func (l *Ledger) StatsFor(ctx context.Context, reportID int64) (*Stats, error) {
	responses, err := l.ResponsesFor(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return computeStats(responses), nil
}

func computeStats(responses []models.PlayerReportResponse) *Stats {
	stats := &Stats{RejectReasons: make(map[string]int)}
	for _, r := range responses {
		stats.NumResponses++
		if r.Banned {
			stats.NumBanned++
			continue
		}
		stats.NumRejected++
		if r.RejectReason.Valid {
			stats.RejectReasons[r.RejectReason.String]++
		}
	}
	return stats
}
