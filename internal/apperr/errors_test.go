package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"not found", NotFound("community", 42), KindNotFound},
		{"token expired", TokenExpired(7), KindTokenExpired},
		{"token already used", TokenAlreadyUsed(7), KindTokenAlreadyUsed},
		{"already recorded", AlreadyRecorded(1, 2), KindAlreadyRecorded},
		{"wrapped", fmt.Errorf("recording response: %w", AlreadyRecorded(1, 2)), KindAlreadyRecorded},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("redeem: %w", TokenExpired(3))
	if !errors.Is(err, &Error{Kind: KindTokenExpired}) {
		t.Error("expected errors.Is to match by kind")
	}
	if errors.Is(err, &Error{Kind: KindTokenNotFound}) {
		t.Error("expected errors.Is not to match a different kind")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"entity and id", NotFound("community", 42), "not_found: community 42"},
		{"with message", Unauthorized("admin", 9, "no authority over community 3"), "unauthorized: admin 9: no authority over community 3"},
		{"message only", EmptyBody(), "empty_body: report body must not be empty"},
		{"pair id", AlreadyRecorded(5, 6), "already_recorded: player_report_response 5/6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}
