package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/pkg/encoding"
)

// HTTPServer hosts the bridge next to JSON state and event-bus metrics
// endpoints and a health check.
type HTTPServer struct {
	server *http.Server
	bridge *Bridge
	config Config
	logger log.Log
}

func NewHTTPServer(config Config, bridge *Bridge, logger log.Log) *HTTPServer {
	s := &HTTPServer{
		bridge: bridge,
		config: config,
		logger: log.OrNop(logger).With(log.String("component", "http")),
	}
	s.server = &http.Server{
		Addr:              config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routes served by s.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, s.bridge)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *HTTPServer) handleState(w http.ResponseWriter, _ *http.Request) {
	body, err := encoding.MarshalJSON(s.bridge.board.State())
	if err != nil {
		s.logger.Error("Failed to encode state", log.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var m bus.Metrics
	if s.bridge.bus != nil {
		m = s.bridge.bus.GetMetrics()
	}
	body, err := encoding.MarshalJSON(m)
	if err != nil {
		s.logger.Error("Failed to encode metrics", log.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Server listening",
		log.String("addr", ln.Addr().String()),
		log.String("ws_path", s.config.Path),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	bridgeErr := s.bridge.Close()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(err, bridgeErr)
	}
	s.logger.Info("Server stopped")
	return bridgeErr
}
