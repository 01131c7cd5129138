// Package server wires the application together: database, geocoder,
// service, handlers, and the chi router, plus graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/eei4369/markio/internal/geocode"
	"github.com/eei4369/markio/internal/handler"
	"github.com/eei4369/markio/internal/middleware"
	sqliteRepo "github.com/eei4369/markio/internal/repository/sqlite"
	"github.com/eei4369/markio/internal/service"
)

type Config struct {
	Port   int
	DBPath string

	// GeocoderURL selects the Nominatim-compatible endpoint used to
	// resolve readable addresses. Empty disables enrichment entirely:
	// reads then return bookmarks with readableAddress unset.
	GeocoderURL    string
	GeocodeTimeout time.Duration
	UserAgent      string
}

type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB // owned by the server, closed on shutdown
}

func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	var enricher *geocode.Enricher
	if s.config.GeocoderURL != "" {
		resolver := geocode.NewNominatimResolver(s.config.GeocoderURL, s.config.UserAgent, nil)
		enricher = geocode.NewEnricher(resolver, s.config.GeocodeTimeout, s.logger)
	}

	bookmarkService := service.NewBookmarkService(s.db, enricher, s.logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/bookmarks", bookmarkHandler.HandleQuery)
		r.Get("/bookmarks/{id}", bookmarkHandler.HandleGetByID)
		r.Post("/bookmarks", bookmarkHandler.HandleCreate)
		r.Put("/bookmarks/{id}", bookmarkHandler.HandleUpdate)
		r.Delete("/bookmarks/{id}", bookmarkHandler.HandleDelete)
		r.Get("/tags", bookmarkHandler.HandleTags)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before closing the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
