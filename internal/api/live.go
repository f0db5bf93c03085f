package api

import (
	"net/http"
	"time"

	"codeberg.org/mutker/enviromon/internal/logger"
)

type livePayload struct {
	Time    string                 `json:"time"`
	Metrics map[string]latestEntry `json:"metrics"`
}

// handleLive upgrades to a WebSocket and pushes the latest sample per metric
// on a fixed cadence until the client goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()

	for {
		latest := s.store.LatestAll()
		payload := livePayload{
			Time:    time.Now().Format(time.RFC3339),
			Metrics: make(map[string]latestEntry, len(latest)),
		}
		for name, sample := range latest {
			payload.Metrics[name] = latestEntry{
				Time:  sample.Time.Format(time.RFC3339),
				Value: sample.Value,
			}
		}

		if err := conn.WriteJSON(payload); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
