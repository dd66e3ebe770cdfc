package models

import "time"

// Report is the submitted report content. Its ID equals the consuming
// token's ID; the primary key doubles as the single-use guard.
type Report struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	Body      string    `gorm:"type:text;not null;column:body"`

	// Relationships
	Token       *ReportToken       `gorm:"foreignKey:ID;references:ID"`
	Reasons     []ReportReason     `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE"`
	Attachments []ReportAttachment `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE"`
	Players     []PlayerReport     `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// ReportReason is a tag attached to a report. The composite primary key
// gives the reason set its set semantics.
type ReportReason struct {
	ReportID int64  `gorm:"primaryKey;autoIncrement:false;column:report_id"`
	Reason   string `gorm:"primaryKey;type:varchar(64);column:reason"`
}

// TableName specifies the table name for ReportReason
func (ReportReason) TableName() string {
	return "report_reasons"
}

// ReportAttachment is an evidence URL attached to a report.
type ReportAttachment struct {
	ReportID int64  `gorm:"primaryKey;autoIncrement:false;column:report_id"`
	URL      string `gorm:"primaryKey;type:varchar(1024);column:url"`
}

// TableName specifies the table name for ReportAttachment
func (ReportAttachment) TableName() string {
	return "report_attachments"
}

// ReportMessage records where a report was forwarded, one row per
// community the report was delivered to.
type ReportMessage struct {
	ReportID    int64 `gorm:"primaryKey;autoIncrement:false;column:report_id"`
	CommunityID int64 `gorm:"primaryKey;autoIncrement:false;column:community_id"`
	ChannelID   int64 `gorm:"not null;column:channel_id"`
	MessageID   int64 `gorm:"not null;column:message_id"`
}

// TableName specifies the table name for ReportMessage
func (ReportMessage) TableName() string {
	return "report_messages"
}
