package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:match_id", h.getByID)
		// Lifecycle controls used by the table officials' console.
		g.POST("/:match_id/advance", h.advance)
		g.PUT("/:match_id/clock", h.setClock)
		g.GET("/:match_id/snapshot", h.snapshot)
	}
}

type createMatchRequest struct {
	HomeTeamID      int64     `json:"home_team_id"`
	AwayTeamID      int64     `json:"away_team_id"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int       `json:"duration_seconds"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	match, err := h.svc.CreateMatch(c.Request.Context(), req.HomeTeamID, req.AwayTeamID, req.StartTime, req.DurationSeconds)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, match)
}

func (h *MatchHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	match, err := h.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

func (h *MatchHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListMatches(c.Request.Context(), repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) advance(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	match, err := h.svc.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

type setClockRequest struct {
	Seconds int `json:"seconds"`
}

func (h *MatchHandler) setClock(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	var req setClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	match, err := h.svc.SetClock(c.Request.Context(), id, req.Seconds)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

func (h *MatchHandler) snapshot(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	snap, err := h.svc.Snapshot(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}
