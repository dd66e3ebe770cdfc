// Package report persists submitted reports. A report and all of its
// side rows are written in one transaction keyed by the consuming token's
// ID, which doubles as the single-use guard.
package report

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/logging"
	"github.com/crosswatch/crosswatch/pkg/telemetry"
)

// SubmissionPlayer is one accused player in a submission. The same player
// ID may appear more than once with different name snapshots; every entry
// becomes its own player-report row.
type SubmissionPlayer struct {
	PlayerID   string
	PlayerName string
	BMRconURL  string
}

// CreateParams carries a validated token plus the report content.
type CreateParams struct {
	Token       *models.ReportToken
	Body        string
	Timestamp   time.Time
	Reasons     []string
	Attachments []string
	Players     []SubmissionPlayer
}

// Repository provides report persistence
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository creates a new report repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:     db,
		logger: logging.WithComponent("report-repository"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// dedupStrings drops duplicates and blank entries, preserving first-seen
// order.
func dedupStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Create inserts the report with all of its reasons, attachments and
// player rows as one atomic unit. The insert of the report row itself is
// a conditional write on the token-derived primary key: a concurrent
// redeemer of the same token loses the insert and observes
// TokenAlreadyUsed, never a duplicate report.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*models.Report, error) {
	ctx, span := telemetry.StartSpan(ctx, "report.create")
	defer span.End()

	if strings.TrimSpace(params.Body) == "" {
		return nil, apperr.EmptyBody()
	}
	if len(params.Players) == 0 {
		return nil, apperr.NoPlayers()
	}

	createdAt := params.Timestamp
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	rep := &models.Report{
		ID:        params.Token.ID,
		CreatedAt: createdAt,
		Body:      params.Body,
	}
	reasons := dedupStrings(params.Reasons)
	attachments := dedupStrings(params.Attachments)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertPlayers(tx, params.Players); err != nil {
			return err
		}

		// Compare-and-insert on the token-derived primary key. Zero rows
		// affected means another submission already consumed the token.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rep)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.TokenAlreadyUsed(params.Token.ID)
		}

		for _, reason := range reasons {
			row := models.ReportReason{ReportID: rep.ID, Reason: reason}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		for _, url := range attachments {
			row := models.ReportAttachment{ReportID: rep.ID, URL: url}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}

		playerReports := make([]models.PlayerReport, 0, len(params.Players))
		for _, p := range params.Players {
			playerReports = append(playerReports, models.PlayerReport{
				PlayerID:   p.PlayerID,
				ReportID:   rep.ID,
				PlayerName: p.PlayerName,
			})
		}
		return tx.Create(&playerReports).Error
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Report created",
		zap.Int64("report_id", rep.ID),
		zap.Int64("community_id", params.Token.CommunityID),
		zap.Int("players", len(params.Players)),
		zap.Int("reasons", len(reasons)))
	return rep, nil
}

// upsertPlayers ensures a player row exists per referenced player. An
// rcon URL supplied with the submission fills an empty column but never
// overwrites a value that is already set.
func upsertPlayers(tx *gorm.DB, players []SubmissionPlayer) error {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.PlayerID] {
			continue
		}
		seen[p.PlayerID] = true

		row := models.Player{ID: p.PlayerID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		if p.BMRconURL != "" {
			err := tx.Model(&models.Player{}).
				Where("id = ? AND (bm_rcon_url IS NULL OR bm_rcon_url = '')", p.PlayerID).
				Update("bm_rcon_url", sql.NullString{String: p.BMRconURL, Valid: true}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Get retrieves a report with its reasons, attachments and players.
func (r *Repository) Get(ctx context.Context, reportID int64) (*models.Report, error) {
	var rep models.Report
	err := r.db.WithContext(ctx).
		Preload("Token").
		Preload("Reasons").
		Preload("Attachments").
		Preload("Players").
		First(&rep, reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("report", reportID)
		}
		return nil, err
	}
	return &rep, nil
}

// PlayerReportsFor returns the player rows of a report.
func (r *Repository) PlayerReportsFor(ctx context.Context, reportID int64) ([]models.PlayerReport, error) {
	var prs []models.PlayerReport
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&prs).Error; err != nil {
		return nil, err
	}
	return prs, nil
}

// DeletePlayer removes a player row. Players referenced by any
// player-report are protected; the caller gets a structured conflict
// instead of a driver error.
func (r *Repository) DeletePlayer(ctx context.Context, playerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.PlayerReport{}).
			Where("player_id = ?", playerID).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("player", playerID, "player is referenced by existing reports")
		}

		res := tx.Delete(&models.Player{}, "id = ?", playerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("player", playerID)
		}
		return nil
	})
}

// AddMessage records where a report was forwarded. The pair is unique per
// community; recording the same delivery twice is reported as such.
func (r *Repository) AddMessage(ctx context.Context, msg *models.ReportMessage) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(msg)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.AlreadyExists("report_message", msg.ReportID)
	}
	return nil
}

// MessagesFor lists the forwarding records of a report.
func (r *Repository) MessagesFor(ctx context.Context, reportID int64) ([]models.ReportMessage, error) {
	var msgs []models.ReportMessage
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
