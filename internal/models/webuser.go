package models

// WebUser is a dashboard login. The scopes bitmask is checked by the
// HTTP layer before any core operation is invoked.
type WebUser struct {
	Username       string `gorm:"primaryKey;type:varchar(64);column:username"`
	HashedPassword string `gorm:"type:varchar(128);not null;column:hashed_password"`
	Scopes         uint64 `gorm:"not null;default:0;column:scopes"`
}

// TableName specifies the table name for WebUser
func (WebUser) TableName() string {
	return "web_users"
}

// Scope constants
const (
	ScopeRead      uint64 = 1 << 0 // read reports and responses
	ScopeRespond   uint64 = 1 << 1 // record responses
	ScopeManage    uint64 = 1 << 2 // manage communities, admins, integrations
	ScopeSuperuser uint64 = 1 << 3 // implies every other scope
)
