// Package token issues and validates the single-use, time-limited report
// tokens that gate report submission.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/identity"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/config"
	"github.com/crosswatch/crosswatch/pkg/logging"
	"github.com/crosswatch/crosswatch/pkg/telemetry"
)

// Authority issues and redeems report tokens
type Authority struct {
	db     *gorm.DB
	cfg    config.TokenConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthority creates a new token authority
func NewAuthority(db *gorm.DB, cfg config.TokenConfig) *Authority {
	return &Authority{
		db:     db,
		cfg:    cfg,
		logger: logging.WithComponent("token-authority"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewValue generates a cryptographically random, URL-safe token value.
func NewValue(numBytes int) (string, error) {
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue creates a token for one report submission, bound to the admin and
// community. A non-positive ttl uses the configured default; ttl is capped
// at the configured maximum.
func (a *Authority) Issue(ctx context.Context, communityID, adminID int64, ttl time.Duration) (*models.ReportToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "token.issue")
	defer span.End()

	if ttl <= 0 {
		ttl = a.cfg.DefaultTTL
	}
	if ttl > a.cfg.MaxTTL {
		ttl = a.cfg.MaxTTL
	}

	var community models.Community
	if err := a.db.WithContext(ctx).First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community", communityID)
		}
		return nil, err
	}
	if !community.IsActive {
		return nil, apperr.NotFound("community", communityID)
	}

	var admin models.Admin
	if err := a.db.WithContext(ctx).First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("admin", adminID)
		}
		return nil, err
	}

	if !identity.HasAuthority(admin.DiscordID, identity.ScopeOf(&admin), &community) {
		return nil, apperr.Unauthorized("admin", adminID,
			fmt.Sprintf("no authority over community %d", communityID))
	}

	value, err := NewValue(a.cfg.ValueBytes)
	if err != nil {
		return nil, err
	}

	tok := &models.ReportToken{
		Value:       value,
		CommunityID: communityID,
		AdminID:     adminID,
		ExpiresAt:   a.now().Add(ttl),
	}
	if err := a.db.WithContext(ctx).Create(tok).Error; err != nil {
		return nil, err
	}

	a.logger.Info("Token issued",
		zap.Int64("token_id", tok.ID),
		zap.Int64("community_id", communityID),
		zap.Int64("admin_id", adminID),
		zap.Time("expires_at", tok.ExpiresAt))
	return tok, nil
}

// Redeem looks a token up by its value and checks its lifecycle. A token
// is redeemable when it exists, has not expired, and no report has been
// created from it yet. Redemption here is advisory; the report repository
// re-checks consumption inside the creating transaction, so two concurrent
// redeemers cannot both create a report.
func (a *Authority) Redeem(ctx context.Context, value string) (*models.ReportToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "token.redeem")
	defer span.End()

	var tok models.ReportToken
	if err := a.db.WithContext(ctx).Where("value = ?", value).First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.TokenNotFound()
		}
		return nil, err
	}

	if tok.IsExpired(a.now()) {
		return nil, apperr.TokenExpired(tok.ID)
	}

	var count int64
	if err := a.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", tok.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.TokenAlreadyUsed(tok.ID)
	}

	return &tok, nil
}
