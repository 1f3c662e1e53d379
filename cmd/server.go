package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/internal/wire"
)

// APIServer runs the HTTP server with graceful shutdown.
type APIServer struct {
	app  *wire.App
	port string
	log  *zap.Logger
}

func NewAPIServer(app *wire.App, port string, log *zap.Logger) *APIServer {
	return &APIServer{
		app:  app,
		port: port,
		log:  log,
	}
}

func (s *APIServer) Run() error {
	server := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.app.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("port", s.port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
