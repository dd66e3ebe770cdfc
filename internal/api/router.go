package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crosswatch/crosswatch/internal/distribution"
	"github.com/crosswatch/crosswatch/internal/identity"
	"github.com/crosswatch/crosswatch/internal/integration"
	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/internal/report"
	"github.com/crosswatch/crosswatch/internal/response"
	"github.com/crosswatch/crosswatch/internal/token"
	"github.com/crosswatch/crosswatch/internal/webauth"
	"github.com/crosswatch/crosswatch/pkg/config"
	"github.com/crosswatch/crosswatch/pkg/logging"
)

// Router sets up the REST API routes
type Router struct {
	identity *identity.Store
	tokens   *token.Authority
	reports  *report.Repository
	resolver *distribution.Resolver
	ledger   *response.Ledger
	gateway  *integration.Gateway
	webUsers *webauth.Store
	limits   config.ReportConfig
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(
	identityStore *identity.Store,
	tokens *token.Authority,
	reports *report.Repository,
	resolver *distribution.Resolver,
	ledger *response.Ledger,
	gateway *integration.Gateway,
	webUsers *webauth.Store,
	limits config.ReportConfig,
) *Router {
	return &Router{
		identity: identityStore,
		tokens:   tokens,
		reports:  reports,
		resolver: resolver,
		ledger:   ledger,
		gateway:  gateway,
		webUsers: webUsers,
		limits:   limits,
		logger:   logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Report submission is authorized by the report token itself
	engine.POST("/api/reports", r.submitReport)

	read := engine.Group("/api", RequireScope(r.webUsers, models.ScopeRead))
	{
		read.GET("/communities", r.listCommunities)
		read.GET("/communities/:id", r.getCommunity)
		read.GET("/reports/:id", r.getReport)
		read.GET("/reports/:id/targets", r.getTargets)
		read.GET("/reports/:id/messages", r.getMessages)
		read.GET("/reports/:id/responses", r.getResponses)
		read.GET("/reports/:id/stats", r.getStats)
		read.GET("/player-reports/:prID/responses/:communityID", r.getResponded)
	}

	respond := engine.Group("/api", RequireScope(r.webUsers, models.ScopeRespond))
	{
		respond.POST("/responses", r.recordResponse)
	}

	manage := engine.Group("/api", RequireScope(r.webUsers, models.ScopeManage))
	{
		manage.POST("/communities", r.createCommunity)
		manage.POST("/communities/:id/admins", r.createAdmin)
		manage.DELETE("/communities/:id/admins/:adminID", r.removeAdmin)
		manage.PUT("/communities/:id/owner", r.transferOwnership)
		manage.PUT("/communities/:id/active", r.setActive)
		manage.PUT("/communities/:id/integrations", r.saveIntegration)
		manage.POST("/tokens", r.issueToken)
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "crosswatch-api",
	})
}
