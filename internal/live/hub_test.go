package live_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/vportnov/handball-stats-service/internal/live"
	"github.com/vportnov/handball-stats-service/internal/model"
)

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := live.NewHub(zerolog.New(io.Discard))
	// Run is intentionally not started: the queue fills, then drops.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Publish(model.MatchSnapshot{MatchID: 1, HomeScore: i})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked the caller")
	}
}

func TestHub_SubscriberReceivesSnapshot(t *testing.T) {
	hub := live.NewHub(zerolog.New(io.Discard))
	go hub.Run()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Subscribe(conn, 7)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The subscription lands asynchronously after the handshake, so keep
	// publishing until the first frame arrives.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish(model.MatchSnapshot{MatchID: 7, Status: model.StatusFirstHalf, HomeScore: 3, AwayScore: 2})
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var snap model.MatchSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.MatchID != 7 || snap.HomeScore != 3 || snap.AwayScore != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestHub_OtherRoomNotNotified(t *testing.T) {
	hub := live.NewHub(zerolog.New(io.Discard))
	go hub.Run()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Subscribe(conn, 1)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Publishing to a different match must not reach this subscriber.
	hub.Publish(model.MatchSnapshot{MatchID: 2, HomeScore: 99})

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("received a snapshot for another match")
	}
}
