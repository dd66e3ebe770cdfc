package models

import "database/sql"

// Player is a tracked in-game identity, shared across communities.
type Player struct {
	ID        string         `gorm:"primaryKey;type:varchar(32);column:id"`
	BMRconURL sql.NullString `gorm:"type:varchar(1024);column:bm_rcon_url"`
}

// TableName specifies the table name for Player
func (Player) TableName() string {
	return "players"
}

// PlayerReport is one named player's involvement in a report. The name
// is snapshotted at submission time and may diverge from the player's
// current display name.
type PlayerReport struct {
	ID         int64  `gorm:"primaryKey;autoIncrement;column:id"`
	PlayerID   string `gorm:"type:varchar(32);not null;index;column:player_id"`
	ReportID   int64  `gorm:"not null;index;column:report_id"`
	PlayerName string `gorm:"type:varchar(64);not null;column:player_name"`

	// Relationships
	Player *Player `gorm:"foreignKey:PlayerID;references:ID"`
	Report *Report `gorm:"foreignKey:ReportID;references:ID"`
}

// TableName specifies the table name for PlayerReport
func (PlayerReport) TableName() string {
	return "player_reports"
}
