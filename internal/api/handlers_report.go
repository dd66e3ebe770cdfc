package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crosswatch/crosswatch/internal/report"
)

type submissionPlayer struct {
	PlayerID   string `json:"player_id" binding:"required"`
	PlayerName string `json:"player_name" binding:"required"`
	BMRconURL  string `json:"bm_rcon_url"`
}

type submitReportRequest struct {
	Token          string             `json:"token" binding:"required"`
	Body           string             `json:"body"`
	Reasons        []string           `json:"reasons"`
	AttachmentURLs []string           `json:"attachment_urls"`
	Players        []submissionPlayer `json:"players"`
}

// submitReport is the report submission intake. Input limits are enforced
// here, before the core is called; the token itself is the credential.
func (r *Router) submitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	if len(req.Body) > r.limits.MaxBodyLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body too long"})
		return
	}
	if len(req.Players) > r.limits.MaxPlayers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many players"})
		return
	}
	if len(req.AttachmentURLs) > r.limits.MaxAttachments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many attachments"})
		return
	}

	ctx := c.Request.Context()
	tok, err := r.tokens.Redeem(ctx, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	players := make([]report.SubmissionPlayer, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, report.SubmissionPlayer{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			BMRconURL:  p.BMRconURL,
		})
	}

	rep, err := r.reports.Create(ctx, report.CreateParams{
		Token:       tok,
		Body:        req.Body,
		Timestamp:   time.Now().UTC(),
		Reasons:     req.Reasons,
		Attachments: req.AttachmentURLs,
		Players:     players,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	r.logger.Info("Report submitted",
		zap.Int64("report_id", rep.ID),
		zap.Int64("community_id", tok.CommunityID))
	c.JSON(http.StatusCreated, gin.H{
		"id":         rep.ID,
		"created_at": rep.CreatedAt,
	})
}

func (r *Router) getReport(c *gin.Context) {
	reportID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	rep, err := r.reports.Get(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (r *Router) getTargets(c *gin.Context) {
	reportID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	targets, err := r.resolver.ResolveTargets(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

func (r *Router) getMessages(c *gin.Context) {
	reportID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	msgs, err := r.reports.MessagesFor(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// paramInt64 parses a numeric path parameter, responding 400 on failure.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
