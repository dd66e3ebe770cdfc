// Package identity holds the Community and Admin records and resolves an
// admin's authority over a community.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/pkg/logging"
)

// ScopeKind discriminates the admin scope variant.
type ScopeKind int

const (
	// ScopeGlobal marks a platform-global admin, one with no home community.
	ScopeGlobal ScopeKind = iota
	// ScopeCommunity marks an admin bound to a single community.
	ScopeCommunity
)

// AdminScope is the tagged variant behind the authorization check: either
// global, or scoped to exactly one community.
type AdminScope struct {
	Kind        ScopeKind
	CommunityID int64 // valid only when Kind == ScopeCommunity
}

// ScopeOf derives the scope variant from an admin row.
func ScopeOf(admin *models.Admin) AdminScope {
	if admin.CommunityID.Valid {
		return AdminScope{Kind: ScopeCommunity, CommunityID: admin.CommunityID.Int64}
	}
	return AdminScope{Kind: ScopeGlobal}
}

// HasAuthority reports whether an admin with the given scope may act on
// the community: they own it, they are a member-scoped admin of it, or
// they are platform-global.
func HasAuthority(adminID int64, scope AdminScope, community *models.Community) bool {
	if community.OwnerID == adminID {
		return true
	}
	switch scope.Kind {
	case ScopeGlobal:
		return true
	case ScopeCommunity:
		return scope.CommunityID == community.ID
	}
	return false
}

// CommunityCreateParams carries the fields needed to bootstrap a community
// together with its owner.
type CommunityCreateParams struct {
	Name             string
	Tag              string
	ContactURL       string
	OwnerID          int64
	OwnerName        string
	ForwardGuildID   *int64
	ForwardChannelID *int64
}

// AdminCreateParams carries the fields for a new admin row.
type AdminCreateParams struct {
	DiscordID   int64
	Name        string
	CommunityID *int64
}

// Store provides identity persistence
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new identity store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		logger: logging.WithComponent("identity-store"),
	}
}

// GetAdmin retrieves an admin by Discord ID
func (s *Store) GetAdmin(ctx context.Context, discordID int64) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).First(&admin, discordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("admin", discordID)
		}
		return nil, err
	}
	return &admin, nil
}

// GetCommunity retrieves a community by ID
func (s *Store) GetCommunity(ctx context.Context, communityID int64) (*models.Community, error) {
	var community models.Community
	if err := s.db.WithContext(ctx).First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community", communityID)
		}
		return nil, err
	}
	return &community, nil
}

// GetCommunityWithRelations retrieves a community with its owner, admins
// and integrations preloaded.
func (s *Store) GetCommunityWithRelations(ctx context.Context, communityID int64) (*models.Community, error) {
	var community models.Community
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Admins").
		Preload("Integrations").
		First(&community, communityID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community", communityID)
		}
		return nil, err
	}
	return &community, nil
}

// ListActiveCommunities returns every active community.
func (s *Store) ListActiveCommunities(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

// CreateCommunity creates a community and binds its owner. If the owner
// admin does not exist yet it is created; an owner already bound to a
// community is rejected.
func (s *Store) CreateCommunity(ctx context.Context, params CommunityCreateParams) (*models.Community, error) {
	community := &models.Community{
		Name:       params.Name,
		Tag:        params.Tag,
		ContactURL: params.ContactURL,
		OwnerID:    params.OwnerID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if params.ForwardGuildID != nil {
		community.ForwardGuildID = sql.NullInt64{Int64: *params.ForwardGuildID, Valid: true}
	}
	if params.ForwardChannelID != nil {
		community.ForwardChannelID = sql.NullInt64{Int64: *params.ForwardChannelID, Valid: true}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.Admin
		err := tx.First(&owner, params.OwnerID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			owner = models.Admin{DiscordID: params.OwnerID, Name: params.OwnerName}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case owner.CommunityID.Valid:
			return apperr.AlreadyExists("admin", params.OwnerID)
		case owner.Name != params.OwnerName && params.OwnerName != "":
			owner.Name = params.OwnerName
			if err := tx.Save(&owner).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(community).Error; err != nil {
			return err
		}

		// Bind the owner to the freshly created community
		return tx.Model(&models.Admin{}).
			Where("discord_id = ?", params.OwnerID).
			Update("community_id", community.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Community created",
		zap.Int64("community_id", community.ID),
		zap.String("name", community.Name),
		zap.Int64("owner_id", community.OwnerID))
	return community, nil
}

// CreateAdmin creates an admin, optionally bound to a community. The
// per-community admin cap counts the owner.
func (s *Store) CreateAdmin(ctx context.Context, params AdminCreateParams) (*models.Admin, error) {
	admin := &models.Admin{DiscordID: params.DiscordID, Name: params.Name}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Admin
		err := tx.First(&existing, params.DiscordID).Error
		if err == nil {
			return apperr.AlreadyExists("admin", params.DiscordID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if params.CommunityID != nil {
			var community models.Community
			if err := tx.First(&community, *params.CommunityID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("community", *params.CommunityID)
				}
				return err
			}

			var count int64
			if err := tx.Model(&models.Admin{}).
				Where("community_id = ?", *params.CommunityID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= models.MaxAdmins {
				return apperr.Conflict("community", *params.CommunityID, "admin limit reached")
			}
			admin.CommunityID = sql.NullInt64{Int64: *params.CommunityID, Valid: true}
		}

		return tx.Create(admin).Error
	})
	if err != nil {
		return nil, err
	}

	return admin, nil
}

// RemoveAdmin detaches an admin from their community. The owner cannot be
// removed; ownership must be transferred first.
func (s *Store) RemoveAdmin(ctx context.Context, discordID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admin models.Admin
		if err := tx.First(&admin, discordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("admin", discordID)
			}
			return err
		}
		if !admin.CommunityID.Valid {
			return nil
		}

		var community models.Community
		if err := tx.First(&community, admin.CommunityID.Int64).Error; err != nil {
			return err
		}
		if community.OwnerID == discordID {
			return apperr.Conflict("admin", discordID, "owner cannot be removed from their community")
		}

		return tx.Model(&models.Admin{}).
			Where("discord_id = ?", discordID).
			Update("community_id", nil).Error
	})
}

// TransferOwnership hands a community to another of its admins.
func (s *Store) TransferOwnership(ctx context.Context, communityID, newOwnerID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community models.Community
		if err := tx.First(&community, communityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("community", communityID)
			}
			return err
		}
		if community.OwnerID == newOwnerID {
			return nil
		}

		var admin models.Admin
		if err := tx.First(&admin, newOwnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("admin", newOwnerID)
			}
			return err
		}
		if !admin.CommunityID.Valid || admin.CommunityID.Int64 != communityID {
			return apperr.Conflict("admin", newOwnerID, "new owner must already be an admin of the community")
		}

		return tx.Model(&models.Community{}).
			Where("id = ?", communityID).
			Update("owner_id", newOwnerID).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("Ownership transferred",
		zap.Int64("community_id", communityID),
		zap.Int64("new_owner_id", newOwnerID))
	return nil
}

// SetActive toggles a community's active flag. Inactive communities are
// excluded from token issuance and distribution.
func (s *Store) SetActive(ctx context.Context, communityID int64, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Community{}).
		Where("id = ?", communityID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("community", communityID)
	}
	return nil
}
