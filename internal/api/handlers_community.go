package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/identity"
	"github.com/crosswatch/crosswatch/internal/models"
)

type createCommunityRequest struct {
	Name             string `json:"name" binding:"required"`
	Tag              string `json:"tag"`
	ContactURL       string `json:"contact_url"`
	OwnerID          int64  `json:"owner_id" binding:"required"`
	OwnerName        string `json:"owner_name" binding:"required"`
	ForwardGuildID   *int64 `json:"forward_guild_id"`
	ForwardChannelID *int64 `json:"forward_channel_id"`
}

func (r *Router) createCommunity(c *gin.Context) {
	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	community, err := r.identity.CreateCommunity(c.Request.Context(), identity.CommunityCreateParams{
		Name:             req.Name,
		Tag:              req.Tag,
		ContactURL:       req.ContactURL,
		OwnerID:          req.OwnerID,
		OwnerName:        req.OwnerName,
		ForwardGuildID:   req.ForwardGuildID,
		ForwardChannelID: req.ForwardChannelID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

func (r *Router) listCommunities(c *gin.Context) {
	communities, err := r.identity.ListActiveCommunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

func (r *Router) getCommunity(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	community, err := r.identity.GetCommunityWithRelations(c.Request.Context(), communityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

type createAdminRequest struct {
	DiscordID int64  `json:"discord_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

func (r *Router) createAdmin(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	admin, err := r.identity.CreateAdmin(c.Request.Context(), identity.AdminCreateParams{
		DiscordID:   req.DiscordID,
		Name:        req.Name,
		CommunityID: &communityID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (r *Router) removeAdmin(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	adminID, ok := paramInt64(c, "adminID")
	if !ok {
		return
	}

	// The path names the community; only its own admins are removable
	// through it.
	admin, err := r.identity.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !admin.CommunityID.Valid || admin.CommunityID.Int64 != communityID {
		respondError(c, apperr.NotFound("admin", adminID))
		return
	}

	if err := r.identity.RemoveAdmin(c.Request.Context(), adminID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

type transferOwnershipRequest struct {
	NewOwnerID int64 `json:"new_owner_id" binding:"required"`
}

func (r *Router) transferOwnership(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	if err := r.identity.TransferOwnership(c.Request.Context(), communityID, req.NewOwnerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (r *Router) setActive(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	if err := r.identity.SetActive(c.Request.Context(), communityID, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

type saveIntegrationRequest struct {
	IntegrationType int16  `json:"integration_type" binding:"required"`
	Enabled         *bool  `json:"enabled"`
	APIKey          string `json:"api_key" binding:"required"`
	APIURL          string `json:"api_url" binding:"required"`
}

func (r *Router) saveIntegration(c *gin.Context) {
	communityID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var req saveIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	cfg := &models.Integration{
		CommunityID:     communityID,
		IntegrationType: req.IntegrationType,
		Enabled:         enabled,
		APIKey:          req.APIKey,
		APIURL:          req.APIURL,
	}
	if err := r.gateway.SaveConfig(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
