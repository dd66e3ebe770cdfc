package models

import "time"

// ReportToken is a single-use capability to submit exactly one report.
// The Report created from a token reuses the token's ID, so consumption
// is checked by looking for a Report row with the same primary key.
type ReportToken struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Value       string    `gorm:"type:varchar(64);not null;uniqueIndex:report_tokens_ux1;column:value"`
	CommunityID int64     `gorm:"not null;column:community_id"`
	AdminID     int64     `gorm:"not null;column:admin_id"`
	ExpiresAt   time.Time `gorm:"not null;column:expires_at"`

	// Relationships
	Community *Community `gorm:"foreignKey:CommunityID;references:ID"`
	Admin     *Admin     `gorm:"foreignKey:AdminID;references:DiscordID"`
}

// TableName specifies the table name for ReportToken
func (ReportToken) TableName() string {
	return "report_tokens"
}

// IsExpired reports whether the token is no longer redeemable at the
// given instant. Expiry is inclusive: a token expires the moment
// now == expires_at.
func (t *ReportToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
