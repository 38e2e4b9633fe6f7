package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	realtime "github.com/koscakluka/coda-realtime/core"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type snapshotter interface {
	Snapshot() realtime.Snapshot
}

type statusResponse struct {
	realtime.Snapshot
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// newStatusHandler serves GET /status with a JSON snapshot of client.
func newStatusHandler(client snapshotter, startedAt time.Time) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		response := statusResponse{
			Snapshot:      client.Snapshot(),
			StartedAt:     startedAt.UTC(),
			UptimeSeconds: time.Since(startedAt).Seconds(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Warn("failed to write status response", "error", err)
		}
	})

	return otelhttp.NewHandler(mux, "status")
}

func newStatusServer(addr string, client snapshotter) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newStatusHandler(client, time.Now()),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
