// Package httpserv contains the liveness HTTP endpoint and the keep-alive
// self-ping loop used on hostings that idle out quiet processes
package httpserv

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const aliveBody = "Bot is alive!"

// Server serves the liveness endpoint
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer creates the liveness HTTP server on the given port
func NewServer(port string, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(aliveBody))
	})

	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server (blocking call)
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Msg("Starting liveness HTTP server...")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping liveness HTTP server...")
	return s.srv.Shutdown(ctx)
}

// Pinger periodically requests its own liveness URL
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// NewPinger creates a keep-alive pinger. An empty URL disables it.
func NewPinger(url string, interval time.Duration, logger zerolog.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Run pings the configured URL until the context is cancelled
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" {
		p.logger.Info().Msg("Keep-alive ping disabled")
		return
	}

	p.logger.Info().Str("url", p.url).Dur("interval", p.interval).Msg("Starting keep-alive ping loop")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to build keep-alive request")
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Keep-alive ping failed")
		return
	}
	_ = resp.Body.Close()

	p.logger.Debug().Int("status", resp.StatusCode).Msg("Keep-alive ping completed")
}
