package response

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/crosswatch/crosswatch/internal/models"
)

func TestNormalizeDisposition(t *testing.T) {
	tests := []struct {
		name      string
		banned    bool
		reason    string
		expected  sql.NullString
		expectErr bool
	}{
		{"ban without reason", true, "", sql.NullString{}, false},
		{"reject without reason", false, "", sql.NullString{}, false},
		{"reject with known reason", false, models.RejectReasonInsufficient, sql.NullString{String: "insufficient", Valid: true}, false},
		{"reject with wrong player", false, models.RejectReasonWrongPlayer, sql.NullString{String: "wrong_player", Valid: true}, false},
		{"ban with reason is invalid", true, models.RejectReasonInsufficient, sql.NullString{}, true},
		{"unknown reason is invalid", false, "grudge", sql.NullString{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDisposition(tt.banned, tt.reason)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("normalizeDisposition() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	responses := []models.PlayerReportResponse{
		{PRID: 1, CommunityID: 1, Banned: true},
		{PRID: 1, CommunityID: 2, Banned: true},
		{PRID: 2, CommunityID: 1, Banned: false, RejectReason: sql.NullString{String: models.RejectReasonInsufficient, Valid: true}},
		{PRID: 2, CommunityID: 3, Banned: false, RejectReason: sql.NullString{String: models.RejectReasonInsufficient, Valid: true}},
		{PRID: 3, CommunityID: 1, Banned: false},
	}

	got := computeStats(responses)
	expected := &Stats{
		NumResponses:  5,
		NumBanned:     2,
		NumRejected:   3,
		RejectReasons: map[string]int{models.RejectReasonInsufficient: 2},
	}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("computeStats() = %+v, want %+v", got, expected)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	got := computeStats(nil)
	if got.NumResponses != 0 || got.NumBanned != 0 || got.NumRejected != 0 {
		t.Errorf("computeStats(nil) = %+v, want zero stats", got)
	}
	if len(got.RejectReasons) != 0 {
		t.Errorf("computeStats(nil) reject reasons = %v, want empty map", got.RejectReasons)
	}
}
