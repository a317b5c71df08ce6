package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vportnov/handball-stats-service/internal/live"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the scoreboard frontends once their domains are fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades scoreboard clients onto the live snapshot feed.
type WSHandler struct {
	hub     *live.Hub
	matches service.MatchService
}

func NewWSHandler(hub *live.Hub, matches service.MatchService) *WSHandler {
	return &WSHandler{hub: hub, matches: matches}
}

func (h *WSHandler) Register(r *gin.Engine) {
	r.GET("/ws/matches/:match_id", h.serve)
}

func (h *WSHandler) serve(c *gin.Context) {
	matchID, err := strconv.ParseInt(c.Param("match_id"), 10, 64)
	if err != nil || matchID <= 0 {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	// Verify the match exists before holding a connection open for it.
	snap, err := h.matches.Snapshot(c.Request.Context(), matchID)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	h.hub.Subscribe(conn, matchID)

	// Seed the new subscriber with the current state so it doesn't wait for
	// the next event to render a scoreboard.
	h.hub.Publish(snap)
}
