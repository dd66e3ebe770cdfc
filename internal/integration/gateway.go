// Package integration stores per-community credentials for external
// moderation-action APIs and the bans placed through them. The wire
// protocols themselves live with the callers; this package only answers
// which credentials apply and which bans already exist.
package integration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/logging"
)

// Gateway provides integration credential and ban persistence
type Gateway struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGateway creates a new integration gateway
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{
		db:     db,
		logger: logging.WithComponent("integration-gateway"),
	}
}

// ConfigFor retrieves the credential for (community, integration type).
func (g *Gateway) ConfigFor(ctx context.Context, communityID int64, integrationType int16) (*models.Integration, error) {
	var cfg models.Integration
	err := g.db.WithContext(ctx).
		Where("community_id = ? AND integration_type = ?", communityID, integrationType).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("integration", fmt.Sprintf("%d/%d", communityID, integrationType))
		}
		return nil, err
	}
	return &cfg, nil
}

// ConfigsFor lists a community's integration credentials.
func (g *Gateway) ConfigsFor(ctx context.Context, communityID int64, enabledOnly bool) ([]models.Integration, error) {
	q := g.db.WithContext(ctx).Where("community_id = ?", communityID)
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	var configs []models.Integration
	if err := q.Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// SaveConfig creates or updates the credential for the config's
// (community, integration type) pair.
func (g *Gateway) SaveConfig(ctx context.Context, cfg *models.Integration) error {
	var community models.Community
	if err := g.db.WithContext(ctx).First(&community, cfg.CommunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("community", cfg.CommunityID)
		}
		return err
	}

	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "community_id"},
			{Name: "integration_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "api_key", "api_url"}),
	}).Create(cfg).Error
	if err != nil {
		return err
	}

	g.logger.Info("Integration config saved",
		zap.Int64("community_id", cfg.CommunityID),
		zap.Int16("integration_type", cfg.IntegrationType))
	return nil
}

// BansForCommunity lists the bans a community holds on a player across
// its integrations.
func (g *Gateway) BansForCommunity(ctx context.Context, playerID string, communityID int64) ([]models.PlayerBan, error) {
	var bans []models.PlayerBan
	err := g.db.WithContext(ctx).
		Joins("JOIN integrations ON integrations.id = player_bans.integration_id").
		Where("player_bans.player_id = ? AND integrations.community_id = ?", playerID, communityID).
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}

// ConfigsNeedingBan returns the community's enabled integrations that do
// not yet hold a ban on the player, the work list for a caller acting on
// a banned response.
func (g *Gateway) ConfigsNeedingBan(ctx context.Context, playerID string, communityID int64) ([]models.Integration, error) {
	configs, err := g.ConfigsFor(ctx, communityID, true)
	if err != nil {
		return nil, err
	}
	bans, err := g.BansForCommunity(ctx, playerID, communityID)
	if err != nil {
		return nil, err
	}
	return configsWithoutBan(configs, bans), nil
}

// configsWithoutBan filters out configs whose integration already holds
// one of the given bans.
func configsWithoutBan(configs []models.Integration, bans []models.PlayerBan) []models.Integration {
	bannedBy := make(map[int64]bool, len(bans))
	for _, ban := range bans {
		bannedBy[ban.IntegrationID] = true
	}
	out := make([]models.Integration, 0, len(configs))
	for _, cfg := range configs {
		if bannedBy[cfg.ID] {
			continue
		}
		out = append(out, cfg)
	}
	return out
}

// RecordBan stores the remote ban placed through an integration. The
// (player, integration) pair is unique; a duplicate is reported as such.
func (g *Gateway) RecordBan(ctx context.Context, ban *models.PlayerBan) error {
	res := g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ban)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.AlreadyExists("player_ban", fmt.Sprintf("%s/%d", ban.PlayerID, ban.IntegrationID))
	}
	return nil
}

// RemoveBan deletes the ban record for (player, integration).
func (g *Gateway) RemoveBan(ctx context.Context, playerID string, integrationID int64) error {
	res := g.db.WithContext(ctx).
		Where("player_id = ? AND integration_id = ?", playerID, integrationID).
		Delete(&models.PlayerBan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("player_ban", fmt.Sprintf("%s/%d", playerID, integrationID))
	}
	return nil
}
