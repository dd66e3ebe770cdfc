package webauth

import (
	"testing"

	"github.com/crosswatch/crosswatch/internal/models"
)

func TestHasScope(t *testing.T) {
	tests := []struct {
		name     string
		scopes   uint64
		wanted   uint64
		expected bool
	}{
		{"exact scope", models.ScopeRead, models.ScopeRead, true},
		{"missing scope", models.ScopeRead, models.ScopeRespond, false},
		{"combined scopes", models.ScopeRead | models.ScopeRespond, models.ScopeRespond, true},
		{"superuser implies everything", models.ScopeSuperuser, models.ScopeManage, true},
		{"no scopes", 0, models.ScopeRead, false},
		{"multiple wanted, one missing", models.ScopeRead, models.ScopeRead | models.ScopeRespond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasScope(tt.scopes, tt.wanted); got != tt.expected {
				t.Errorf("HasScope(%b, %b) = %v, want %v", tt.scopes, tt.wanted, got, tt.expected)
			}
		})
	}
}
