package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/stfc-combat/internal/models"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type progressMsg struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

const wsWriteWait = 10 * time.Second

// handleSimWS runs one simulation per connection. The client sends
// {"type":"run","data":<simRequest>}; the server answers with "progress"
// messages (about one per percent) and a final "result" or "error".
// Closing the socket cancels the run.
func (s *server) handleSimWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws: upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	log := s.log.With(zap.String("remote", r.RemoteAddr))
	log.Info("ws: connect")

	send := func(m wsMsg) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(m)
	}
	sendError := func(msg string) {
		_ = send(wsMsg{Type: "error", Data: map[string]string{"message": msg}})
	}

	var in clientIn
	if err := conn.ReadJSON(&in); err != nil {
		log.Info("ws: read error", zap.Error(err))
		return
	}
	if in.Type != "run" {
		sendError("expected a run request, got " + in.Type)
		return
	}
	var req simRequest
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &req); err != nil {
			sendError("invalid request: " + err.Error())
			return
		}
	}
	if err := s.prepare(&req); err != nil {
		sendError(err.Error())
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	progress := make(chan progressMsg, 128)
	step := max(req.Iterations/100, 1)
	sim := s.simulator(req.Seed)
	sim.Progress = func(done, total int) {
		if done%step != 0 && done != total {
			return
		}
		select {
		case progress <- progressMsg{Done: done, Total: total}:
		default:
		}
	}
	results := make(chan models.CombatSimulatorResult, 1)
	go func() { results <- sim.Run(ctx, req.Data, req.Iterations) }()

	for {
		select {
		case p := <-progress:
			if err := send(wsMsg{Type: "progress", Data: p}); err != nil {
				log.Info("ws: write error", zap.Error(err))
				cancel()
			}
		case res := <-results:
			if res.Iterations == 0 {
				sendError(res.ExampleLog)
				return
			}
			if !res.AverageOutcome.Finite() {
				sendError(msgNonFinite)
				return
			}
			resp, err := s.finish(r, req, res)
			if err != nil {
				log.Error("save sim run", zap.Error(err))
			}
			if err := send(wsMsg{Type: "result", Data: resp}); err != nil {
				log.Info("ws: write error", zap.Error(err))
				return
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			log.Info("ws: simulation delivered", zap.Int("iterations", res.Iterations))
			return
		}
	}
}
