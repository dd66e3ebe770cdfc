package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type issueTokenRequest struct {
	CommunityID int64 `json:"community_id" binding:"required"`
	AdminID     int64 `json:"admin_id" binding:"required"`
	TTLSeconds  int64 `json:"ttl_seconds"`
}

func (r *Router) issueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	tok, err := r.tokens.Issue(c.Request.Context(), req.CommunityID, req.AdminID, ttl)
	if err != nil {
		respondError(c, err)
		return
	}

	// Only the value and expiry leave the core; the caller renders the
	// submission link.
	c.JSON(http.StatusCreated, gin.H{
		"token":      tok.Value,
		"expires_at": tok.ExpiresAt,
	})
}
