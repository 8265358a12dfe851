package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateState is the view of the rate provider the ops server exposes.
type RateState interface {
	sharedobs.ReadinessChecker
	Snapshot() (domain.RateSnapshot, bool)
}

// Server exposes health, readiness, metrics, and current-rate endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the ops listener. /readyz reports ready once a rate
// table (live or offline) has been published.
func NewServer(addr string, rates RateState, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(rates))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /rates", handleRates(rates))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("ops server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleRates(rates RateState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap, ok := rates.Snapshot()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": domain.StatusFetching})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, snap)
	}
}
