// Command server runs the bookmark API. Configuration comes from the
// environment:
//
//	PORT             listen port (default 8080)
//	DB_PATH          SQLite database file (default data/markio.db)
//	GEOCODER_URL     Nominatim-compatible endpoint; empty disables address
//	                 enrichment
//	GEOCODE_TIMEOUT  per-lookup timeout, Go duration syntax (default 5s)
//	LOG_LEVEL        debug, info, warn, or error (default info)
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eei4369/markio/internal/geocode"
	"github.com/eei4369/markio/internal/server"
)

func main() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelInfo
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/markio.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	geocodeTimeout := geocode.DefaultTimeout
	if raw := os.Getenv("GEOCODE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid GEOCODE_TIMEOUT value", slog.String("value", raw))
			os.Exit(1)
		}
		geocodeTimeout = d
	}

	cfg := server.Config{
		Port:           port,
		DBPath:         dbPath,
		GeocoderURL:    os.Getenv("GEOCODER_URL"),
		GeocodeTimeout: geocodeTimeout,
		UserAgent:      "markio-server/1.0",
	}
	if cfg.GeocoderURL == "" {
		logger.Warn("GEOCODER_URL not set — address enrichment is disabled")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
