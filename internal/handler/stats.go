package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/scoring"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/pkg/response"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	m := r.Group("/matches")
	{
		m.GET("/:match_id/stats", h.listByMatch)
		m.GET("/:match_id/players/:player_id/score", h.playerScore)
		m.POST("/:match_id/players/:player_id/recompute", h.recompute)
	}
}

func (h *StatsHandler) listByMatch(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	stats, err := h.svc.ListByMatch(c.Request.Context(), matchID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stats)
}

// playerScore serves both score models; the caller picks via ?strategy=.
// Defaults to the maintained counter-weighted aggregate.
func (h *StatsHandler) playerScore(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	playerID, _ := strconv.ParseInt(c.Param("player_id"), 10, 64)
	strategy := scoring.Strategy(c.DefaultQuery("strategy", string(scoring.StrategyCounterWeighted)))
	score, err := h.svc.PlayerScore(c.Request.Context(), matchID, playerID, strategy)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, score)
}

func (h *StatsHandler) recompute(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	playerID, _ := strconv.ParseInt(c.Param("player_id"), 10, 64)
	stat, err := h.svc.Recompute(c.Request.Context(), matchID, playerID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stat)
}
