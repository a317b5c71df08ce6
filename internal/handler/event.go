package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/pkg/response"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) Register(r *gin.RouterGroup) {
	m := r.Group("/matches")
	{
		m.POST("/:match_id/events", h.submit)
		m.GET("/:match_id/events", h.listByMatch)
	}
	// Deletion is an explicit correction, addressed by event id.
	r.Group("/events").DELETE("/:event_id", h.delete)
}

type submitEventRequest struct {
	TeamID          int64  `json:"team_id"`
	PlayerID        *int64 `json:"player_id"`
	RelatedPlayerID *int64 `json:"related_player_id"`
	Kind            string `json:"kind"`
	Period          int    `json:"period"`
	TimeSeconds     int    `json:"time_seconds"`
	Notes           string `json:"notes"`
}

func (h *EventHandler) submit(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	var req submitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	ev, err := h.svc.Submit(c.Request.Context(), service.SubmitEventInput{
		MatchID:         matchID,
		TeamID:          req.TeamID,
		PlayerID:        req.PlayerID,
		RelatedPlayerID: req.RelatedPlayerID,
		Kind:            model.EventKind(req.Kind),
		Period:          model.Period(req.Period),
		TimeSeconds:     req.TimeSeconds,
		Notes:           req.Notes,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, ev)
}

func (h *EventHandler) listByMatch(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Param("match_id"), 10, 64)
	events, err := h.svc.ListByMatch(c.Request.Context(), matchID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, events)
}

func (h *EventHandler) delete(c *gin.Context) {
	eventID, _ := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err := h.svc.Delete(c.Request.Context(), eventID); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
