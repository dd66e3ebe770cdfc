package models

// Integration is a community's stored credential for invoking an
// external moderation-action API.
type Integration struct {
	ID              int64  `gorm:"primaryKey;autoIncrement;column:id"`
	CommunityID     int64  `gorm:"not null;uniqueIndex:integrations_ux1;column:community_id"`
	IntegrationType int16  `gorm:"type:smallint;not null;uniqueIndex:integrations_ux1;column:integration_type"`
	Enabled         bool   `gorm:"not null;default:true;column:enabled"`
	APIKey          string `gorm:"type:varchar(256);not null;column:api_key"`
	APIURL          string `gorm:"type:varchar(1024);not null;column:api_url"`

	// Relationships
	Community *Community `gorm:"foreignKey:CommunityID;references:ID"`
}

// TableName specifies the table name for Integration
func (Integration) TableName() string {
	return "integrations"
}

// Integration type constants
const (
	IntegrationTypeBattlemetrics int16 = 1 // Battlemetrics ban list
	IntegrationTypeCommunityRCON int16 = 2 // Community RCON ban API
)

// PlayerBan records a ban placed on a player through one integration,
// keyed remotely by the integration's own ban ID.
type PlayerBan struct {
	ID            int64  `gorm:"primaryKey;autoIncrement;column:id"`
	PlayerID      string `gorm:"type:varchar(32);not null;uniqueIndex:player_bans_ux1;column:player_id"`
	IntegrationID int64  `gorm:"not null;uniqueIndex:player_bans_ux1;column:integration_id"`
	RemoteID      string `gorm:"type:varchar(64);not null;column:remote_id"`

	// Relationships
	Player      *Player      `gorm:"foreignKey:PlayerID;references:ID"`
	Integration *Integration `gorm:"foreignKey:IntegrationID;references:ID"`
}

// TableName specifies the table name for PlayerBan
func (PlayerBan) TableName() string {
	return "player_bans"
}
