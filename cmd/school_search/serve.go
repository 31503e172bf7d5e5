package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-school-search/api"
	"github.com/gcbaptista/go-school-search/internal/analytics"
	"github.com/gcbaptista/go-school-search/internal/logging"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search, stats and metrics over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.load()
			if err != nil {
				return err
			}
			if port != 0 {
				settings.Server.Port = port
			}

			logger := logging.Setup(settings.Logging.Level, settings.Logging.Format)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := newMetrics(settings, reg)

			eng, err := newEngine(cmd, settings, logger, m)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			router := gin.New()
			api.SetupRoutes(router, eng, api.Options{
				MaxQueryLength: settings.Search.MaxQueryLength,
				MaxBodyBytes:   settings.Server.MaxBodyBytes,
				Metrics:        m,
				MetricsPath:    settings.Metrics.Path,
				Analytics:      analytics.NewService(analytics.DefaultMaxEvents, logging.WithComponent(logger, "analytics")),
				Logger:         logging.WithComponent(logger, "api"),
			})

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", settings.Server.Port),
				Handler:      router,
				ReadTimeout:  settings.Server.ReadTimeout,
				WriteTimeout: settings.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", server.Addr, err)
			}
			logger.WithField("addr", listener.Addr().String()).Info("Starting server")
			return runServer(ctx, server, listener, settings.Server.ShutdownTimeout, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

// runServer serves on listener until ctx is done, then shuts the server down
// and returns only after in-flight requests have drained or timeout expired.
func runServer(ctx context.Context, server *http.Server, listener net.Listener, timeout time.Duration, logger *logrus.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	// Shutdown waits for active connections to go idle.
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
