package live

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket subscriber attached to a single match room.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID int64
}

// Hub fans match snapshots out to websocket subscribers, one room per match.
// All state is owned by the Run goroutine; the channels are the only doors in.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.MatchSnapshot
	rooms      map[int64]map[*Client]struct{}
	log        zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.MatchSnapshot, 64),
		rooms:      make(map[int64]map[*Client]struct{}),
		log:        logger.With().Str("module", "live").Str("component", "hub").Logger(),
	}
}

// Run owns the room bookkeeping. Call once, as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.rooms[c.matchID] == nil {
				h.rooms[c.matchID] = make(map[*Client]struct{})
			}
			h.rooms[c.matchID][c] = struct{}{}
			h.log.Debug().Int64("match_id", c.matchID).Int("room_size", len(h.rooms[c.matchID])).Msg("client joined")
		case c := <-h.unregister:
			if room, ok := h.rooms[c.matchID]; ok {
				if _, ok := room[c]; ok {
					delete(room, c)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.matchID)
					}
				}
			}
		case snap := <-h.broadcast:
			room := h.rooms[snap.MatchID]
			if len(room) == 0 {
				continue
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				h.log.Error().Err(err).Int64("match_id", snap.MatchID).Msg("snapshot marshal failed")
				continue
			}
			for c := range room {
				select {
				case c.send <- payload:
				default:
					// Slow consumer: drop it rather than stall the room.
					delete(room, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish implements service.SnapshotPublisher. Never blocks the admission
// path: if the hub is saturated the snapshot is dropped, clients resync on
// the next event.
func (h *Hub) Publish(snap model.MatchSnapshot) {
	select {
	case h.broadcast <- snap:
	default:
		h.log.Warn().Int64("match_id", snap.MatchID).Msg("broadcast queue full, snapshot dropped")
	}
}

// Subscribe attaches an upgraded connection to a match room and starts its
// read/write pumps.
func (h *Hub) Subscribe(conn *websocket.Conn, matchID int64) {
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 16), matchID: matchID}
	h.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. Its job is to
// notice disconnects and keep the pong deadline fresh.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
