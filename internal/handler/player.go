package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("/:player_id", h.getByID)
	}
	// Roster listing hangs off the team resource.
	r.Group("/teams").GET("/:team_id/players", h.listByTeam)
}

type createPlayerRequest struct {
	TeamID       int64  `json:"team_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	JerseyNumber int    `json:"jersey_number"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), req.TeamID, req.FirstName, req.LastName, model.Position(req.Position), req.JerseyNumber)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("player_id"), 10, 64)
	player, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) listByTeam(c *gin.Context) {
	teamID, _ := strconv.ParseInt(c.Param("team_id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListPlayersByTeam(c.Request.Context(), teamID, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
