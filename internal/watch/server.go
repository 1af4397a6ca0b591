package watch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
)

// Status is the snapshot served on the admin endpoint.
type Status struct {
	Project     string `json:"project"`
	Builds      int64  `json:"builds"`
	Failures    int64  `json:"failures"`
	LastRunID   string `json:"last_run_id,omitempty"`
	LastOutcome string `json:"last_outcome,omitempty"`
}

// AdminServer serves /healthz, /status and /metrics while watch mode runs.
type AdminServer struct {
	srv *http.Server
}

// NewAdminServer builds the admin listener. metricsHandler may be nil, in
// which case /metrics is not registered.
func NewAdminServer(addr string, metricsHandler http.Handler, status func() Status) *AdminServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status())
	})
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	return &AdminServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background until Shutdown.
func (a *AdminServer) Start() {
	go func() {
		slog.Info("Admin endpoint listening", slog.String("addr", a.srv.Addr))
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Admin endpoint failed", logfields.Error(err))
		}
	}()
}

// Shutdown stops the listener gracefully.
func (a *AdminServer) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (a *AdminServer) Handler() http.Handler { return a.srv.Handler }
