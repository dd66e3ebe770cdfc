package api

import (
	"net/http"
	"testing"

	"github.com/crosswatch/crosswatch/internal/apperr"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		name     string
		kind     apperr.Kind
		expected int
	}{
		{"not found", apperr.KindNotFound, http.StatusNotFound},
		{"token not found", apperr.KindTokenNotFound, http.StatusNotFound},
		{"unauthorized", apperr.KindUnauthorized, http.StatusForbidden},
		{"token expired", apperr.KindTokenExpired, http.StatusGone},
		{"token already used", apperr.KindTokenAlreadyUsed, http.StatusConflict},
		{"empty body", apperr.KindEmptyBody, http.StatusBadRequest},
		{"no players", apperr.KindNoPlayers, http.StatusBadRequest},
		{"already exists", apperr.KindAlreadyExists, http.StatusConflict},
		{"conflict", apperr.KindConflict, http.StatusConflict},
		{"unknown", apperr.KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForKind(tt.kind); got != tt.expected {
				t.Errorf("statusForKind(%v) = %d, want %d", tt.kind, got, tt.expected)
			}
		})
	}
}
