package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crosswatch/crosswatch/internal/apperr"
)

// statusForKind maps a structured error kind to its HTTP status.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound, apperr.KindTokenNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindTokenExpired:
		return http.StatusGone
	case apperr.KindTokenAlreadyUsed, apperr.KindAlreadyExists, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindEmptyBody, apperr.KindNoPlayers:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a structured error. AlreadyRecorded is not an
// error to the caller: the response they wanted recorded is recorded, so
// it renders as a 200 with a flag instead.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindAlreadyRecorded {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "already_recorded": true})
		return
	}

	status := statusForKind(kind)
	body := gin.H{"error": kind.String()}
	if status == http.StatusInternalServerError {
		body["error"] = "internal_error"
	} else {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}
