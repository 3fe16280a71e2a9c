// Package api contains the REST API of the connection service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/brygal1/flowise/pkg/api/v1"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/oauth"
	"github.com/brygal1/flowise/pkg/oauth/providers"
)

const (
	// middlewareTimeout must exceed the coordinator's exchange timeout or
	// slow providers get cut off mid-exchange.
	middlewareTimeout = 90 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ServerConfig carries the dependencies and settings of the API server.
type ServerConfig struct {
	Address     string
	Coordinator *oauth.Coordinator
	Registry    *providers.Registry
	Health      v1.Pinger
}

// NewRouter assembles the full route tree. Exposed separately from Serve so
// tests can drive the router without a listener.
func NewRouter(cfg ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Timeout(middlewareTimeout),
	)

	r.Mount("/oauth", v1.OAuthRouter(cfg.Coordinator, cfg.Registry))
	r.Mount("/health", v1.HealthcheckRouter(cfg.Health))
	r.Mount("/metrics", promhttp.Handler())

	return r
}

// Serve starts the server on the configured address and blocks until the
// context is cancelled, then shuts down gracefully. The caller sets up
// signal handling.
func Serve(ctx context.Context, cfg ServerConfig) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              cfg.Address,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	logger.Infof("starting HTTP server on %s", listener.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped with error: %w", err)
	case <-ctx.Done():
	}

	// The parent context is already cancelled; give in-flight requests
	// their own bounded window to finish.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Infof("HTTP server stopped")
	return nil
}
