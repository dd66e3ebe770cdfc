package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crosswatch/crosswatch/internal/response"
)

type recordResponseRequest struct {
	PRID         int64  `json:"pr_id" binding:"required"`
	CommunityID  int64  `json:"community_id" binding:"required"`
	Banned       bool   `json:"banned"`
	RejectReason string `json:"reject_reason"`
}

func (r *Router) recordResponse(c *gin.Context) {
	var req recordResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	row, err := r.ledger.Record(c.Request.Context(), response.RecordParams{
		PRID:         req.PRID,
		CommunityID:  req.CommunityID,
		Banned:       req.Banned,
		RejectReason: req.RejectReason,
	})
	if err != nil {
		// AlreadyRecorded comes back as a 200 from respondError
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           row.ID,
		"pr_id":        row.PRID,
		"community_id": row.CommunityID,
	})
}

func (r *Router) getResponded(c *gin.Context) {
	prID, ok := paramInt64(c, "prID")
	if !ok {
		return
	}
	communityID, ok := paramInt64(c, "communityID")
	if !ok {
		return
	}

	responded, err := r.ledger.HasResponded(c.Request.Context(), prID, communityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responded": responded})
}

func (r *Router) getResponses(c *gin.Context) {
	reportID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	responses, err := r.ledger.ResponsesFor(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

func (r *Router) getStats(c *gin.Context) {
	reportID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	stats, err := r.ledger.StatsFor(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
