package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/live"
	"github.com/vportnov/handball-stats-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints; hub may be nil when
// the websocket feed is disabled.
func Register(r *gin.Engine, repo Pinger, teamSvc service.TeamService, playerSvc service.PlayerService, matchSvc service.MatchService, eventSvc service.EventService, statsSvc service.StatsService, hub *live.Hub) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if hub != nil {
		NewWSHandler(hub, matchSvc).Register(r)
	}

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(teamSvc).Register(api)
		NewPlayerHandler(playerSvc).Register(api)
		NewMatchHandler(matchSvc).Register(api)
		NewEventHandler(eventSvc).Register(api)
		NewStatsHandler(statsSvc).Register(api)
	}
}
