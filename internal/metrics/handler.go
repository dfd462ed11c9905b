package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves a gatherer's collectors in Prometheus text exposition
// format at /metrics, using promhttp's own handler rather than hand-rolling
// the exposition format.
type Server struct {
	httpSrv *http.Server
}

// NewServer builds a server listening on addr. Pass prometheus.DefaultGatherer
// to serve the collectors registered against prometheus.DefaultRegisterer.
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{httpSrv: &http.Server{Addr: addr, Handler: mux}}
}

// Serve blocks, serving metrics until the server is shut down or
// encounters an error other than http.ErrServerClosed.
func (s *Server) Serve() error {
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("metrics: serve: %w", err)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
