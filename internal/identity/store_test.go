package identity

import (
	"database/sql"
	"testing"

	"github.com/crosswatch/crosswatch/internal/models"
)

func TestScopeOf(t *testing.T) {
	tests := []struct {
		name     string
		admin    models.Admin
		expected AdminScope
	}{
		{
			name:     "global admin",
			admin:    models.Admin{DiscordID: 1, Name: "root"},
			expected: AdminScope{Kind: ScopeGlobal},
		},
		{
			name:     "scoped admin",
			admin:    models.Admin{DiscordID: 2, Name: "mod", CommunityID: sql.NullInt64{Int64: 7, Valid: true}},
			expected: AdminScope{Kind: ScopeCommunity, CommunityID: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeOf(&tt.admin); got != tt.expected {
				t.Errorf("ScopeOf() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestHasAuthority(t *testing.T) {
	community := &models.Community{ID: 7, OwnerID: 100}

	tests := []struct {
		name     string
		adminID  int64
		scope    AdminScope
		expected bool
	}{
		{"owner always allowed", 100, AdminScope{Kind: ScopeCommunity, CommunityID: 99}, true},
		{"global admin allowed", 200, AdminScope{Kind: ScopeGlobal}, true},
		{"member of community allowed", 300, AdminScope{Kind: ScopeCommunity, CommunityID: 7}, true},
		{"member of other community denied", 300, AdminScope{Kind: ScopeCommunity, CommunityID: 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAuthority(tt.adminID, tt.scope, community); got != tt.expected {
				t.Errorf("HasAuthority(%d, %+v) = %v, want %v", tt.adminID, tt.scope, got, tt.expected)
			}
		})
	}
}
