package models

import (
	"database/sql"
	"time"
)

// PlayerReportResponse is one community's disposition record for one
// player-report. The unique index on (pr_id, community_id) enforces the
// at-most-one-response-per-pair invariant.
type PlayerReportResponse struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	PRID         int64          `gorm:"not null;uniqueIndex:player_report_responses_ux1;column:pr_id"`
	CommunityID  int64          `gorm:"not null;uniqueIndex:player_report_responses_ux1;column:community_id"`
	Banned       bool           `gorm:"not null;default:false;column:banned"`
	RejectReason sql.NullString `gorm:"type:varchar(32);column:reject_reason"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at"`

	// Relationships
	PlayerReport *PlayerReport `gorm:"foreignKey:PRID;references:ID"`
	Community    *Community    `gorm:"foreignKey:CommunityID;references:ID"`
}

// TableName specifies the table name for PlayerReportResponse
func (PlayerReportResponse) TableName() string {
	return "player_report_responses"
}

// Reject reason constants
const (
	RejectReasonInsufficient = "insufficient"
	RejectReasonWrongPlayer  = "wrong_player"
)
