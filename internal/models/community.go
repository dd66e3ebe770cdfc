package models

import (
	"database/sql"
	"time"
)

// Community represents a moderation tenant
type Community struct {
	ID               int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Name             string        `gorm:"type:varchar(64);not null;uniqueIndex:communities_ux1;column:name"`
	Tag              string        `gorm:"type:varchar(8);not null;default:'';column:tag"`
	ContactURL       string        `gorm:"type:varchar(1024);not null;default:'';column:contact_url"`
	OwnerID          int64         `gorm:"not null;column:owner_id"`
	ForwardGuildID   sql.NullInt64 `gorm:"uniqueIndex:communities_ux2;column:forward_guild_id"`
	ForwardChannelID sql.NullInt64 `gorm:"column:forward_channel_id"`
	IsActive         bool          `gorm:"not null;default:true;column:is_active"`
	CreatedAt        time.Time     `gorm:"not null;column:created_at"`

	// Relationships
	Owner        *Admin        `gorm:"foreignKey:OwnerID;references:DiscordID"`
	Admins       []Admin       `gorm:"foreignKey:CommunityID;references:ID"`
	Integrations []Integration `gorm:"foreignKey:CommunityID;references:ID"`
}

// TableName specifies the table name for Community
func (Community) TableName() string {
	return "communities"
}

// MaxAdmins is the upper limit of admins each community may have,
// the owner included.
const MaxAdmins = 12
