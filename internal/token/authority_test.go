package token

import (
	"strings"
	"testing"
	"time"

	"github.com/crosswatch/crosswatch/internal/models"
)

func TestNewValue(t *testing.T) {
	tests := []struct {
		name     string
		numBytes int
		// base64 without padding: ceil(n*8/6) characters
		expectedLen int
	}{
		{"16 bytes", 16, 22},
		{"32 bytes", 32, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewValue(tt.numBytes)
			if err != nil {
				t.Fatalf("NewValue() error: %v", err)
			}
			if len(v) != tt.expectedLen {
				t.Errorf("NewValue(%d) length = %d, want %d", tt.numBytes, len(v), tt.expectedLen)
			}
			if strings.ContainsAny(v, "+/=") {
				t.Errorf("NewValue() = %q, expected URL-safe alphabet", v)
			}
		})
	}
}

func TestNewValueCollisionFree(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v, err := NewValue(16)
		if err != nil {
			t.Fatalf("NewValue() error: %v", err)
		}
		if seen[v] {
			t.Fatalf("NewValue() produced duplicate %q", v)
		}
		seen[v] = true
	}
}

func TestTokenIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{"future expiry", now.Add(10 * time.Minute), false},
		{"past expiry", now.Add(-time.Second), true},
		{"exact boundary counts as expired", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := models.ReportToken{ExpiresAt: tt.expiresAt}
			if got := tok.IsExpired(now); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}
