package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// handleWS streams supervisor events to one client. The subscription ends
// when the client goes away or falls too far behind (the supervisor drops
// slow subscribers, which closes the event channel).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	events, cancel := s.state.Subscribe()
	defer cancel()

	// Writer goroutine
	writeCtx, writeCancel := context.WithCancel(r.Context())
	defer writeCancel()
	go func() {
		for ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				s.log.Error("marshal event", zap.Error(err))
				continue
			}
			ctx, cancelWrite := context.WithTimeout(writeCtx, 3*time.Second)
			err = conn.Write(ctx, websocket.MessageText, payload)
			cancelWrite()
			if err != nil {
				return
			}
		}
		// Event channel closed: supervisor stopped or dropped us.
		_ = conn.Close(websocket.StatusGoingAway, "stream ended")
	}()

	// Reader loop: the stream is one-way, but reading is how we notice the
	// client closing.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			return
		}
	}
}
