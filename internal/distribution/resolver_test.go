package distribution

import (
	"reflect"
	"testing"

	"github.com/crosswatch/crosswatch/internal/models"
)

func TestComputeTargets(t *testing.T) {
	// Report by community 1 naming two players; player of pr 11 is also
	// tracked by communities 2 (active) and 3 (inactive).
	prs := []models.PlayerReport{
		{ID: 10, PlayerID: "p1", ReportID: 5},
		{ID: 11, PlayerID: "p2", ReportID: 5},
	}
	active := map[int64]bool{1: true, 2: true}

	tests := []struct {
		name     string
		tracked  map[int64][]int64
		expected []Target
	}{
		{
			name:    "origin always included plus tracked communities",
			tracked: map[int64][]int64{11: {2, 3}},
			expected: []Target{
				{PRID: 10, CommunityID: 1},
				{PRID: 11, CommunityID: 1},
				{PRID: 11, CommunityID: 2},
			},
		},
		{
			name:    "no trackers yields origin only",
			tracked: map[int64][]int64{},
			expected: []Target{
				{PRID: 10, CommunityID: 1},
				{PRID: 11, CommunityID: 1},
			},
		},
		{
			name:    "origin in tracker result is not duplicated",
			tracked: map[int64][]int64{10: {1}, 11: {1, 2}},
			expected: []Target{
				{PRID: 10, CommunityID: 1},
				{PRID: 11, CommunityID: 1},
				{PRID: 11, CommunityID: 2},
			},
		},
		{
			name:    "inactive communities excluded",
			tracked: map[int64][]int64{10: {3}, 11: {3}},
			expected: []Target{
				{PRID: 10, CommunityID: 1},
				{PRID: 11, CommunityID: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTargets(prs, 1, tt.tracked, active)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("computeTargets() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeTargetsEmptyReport(t *testing.T) {
	got := computeTargets(nil, 1, nil, map[int64]bool{1: true})
	if len(got) != 0 {
		t.Errorf("computeTargets() with no player reports = %v, want empty", got)
	}
}

func TestMergeIDs(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []int64
		expected []int64
	}{
		{"disjoint", []int64{1, 2}, []int64{3}, []int64{1, 2, 3}},
		{"overlap", []int64{1, 2}, []int64{2, 3}, []int64{1, 2, 3}},
		{"both empty", nil, nil, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeIDs(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("mergeIDs(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
