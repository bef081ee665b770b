package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CTAG07/charmarkov/pkg/markov"
)

// Server hosts the JSON API around a single trained model.
type Server struct {
	config    *Config
	logger    *slog.Logger
	model     *markov.LanguageModel
	history   *HistoryStore
	markovAPI *MarkovAPI
	serverAPI *ServerAPI
	apiMux    *http.ServeMux
}

// NewServer wires the APIs to model. history may be nil.
func NewServer(config *Config, logger *slog.Logger, model *markov.LanguageModel, history *HistoryStore) *Server {
	server := &Server{
		config:    config,
		logger:    logger,
		model:     model,
		history:   history,
		markovAPI: NewMarkovAPI(model, config.Model.Seed, history, config.Server, logger),
		serverAPI: NewServerAPI(logger),
		apiMux:    http.NewServeMux(),
	}
	server.markovAPI.RegisterRoutes(server.apiMux)
	server.serverAPI.RegisterRoutes(server.apiMux)
	return server
}

// Handler returns the root handler of the API.
func (s *Server) Handler() http.Handler {
	return s.apiMux
}

// serve runs the API until SIGINT or SIGTERM, then shuts it down gracefully.
func serve(ctx context.Context, config *Config, logger *slog.Logger) error {
	model, err := buildModel(ctx, config.Model, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}

	var history *HistoryStore
	if config.Server.HistoryDatabasePath != "" {
		history, err = OpenHistory(config.Server.HistoryDatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			logger.Info("Closing history database.")
			if err := history.Close(); err != nil {
				logger.Error("Failed to close history database", "error", err)
			}
		}()
	}

	server := NewServer(config, logger, model, history)
	apiHttpServer := &http.Server{
		Addr:              config.Server.ApiAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting api server", "address", apiHttpServer.Addr)
		if err := apiHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("Signal received, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = apiHttpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Api server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped.")
	return nil
}
