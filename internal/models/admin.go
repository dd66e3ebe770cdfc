package models

import "database/sql"

// Admin represents a human moderator identified by their Discord ID.
// An admin with no community is platform-global.
type Admin struct {
	DiscordID   int64         `gorm:"primaryKey;autoIncrement:false;column:discord_id"`
	Name        string        `gorm:"type:varchar(64);not null;column:name"`
	CommunityID sql.NullInt64 `gorm:"index;column:community_id"`

	// Relationships
	Community *Community `gorm:"foreignKey:CommunityID;references:ID"`
}

// TableName specifies the table name for Admin
func (Admin) TableName() string {
	return "admins"
}
