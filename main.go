// Package main implements HandHistoryDB, a PokerStars hand-history import tool.
//
// HandHistoryDB reads exported hand-history log files, extracts structured
// fields from each hand (identifier, blinds, game type, whether the hand
// was played) and persists them to a relational store. It can additionally
// keep running as a small HTTP service that accepts hand-history blobs over
// POST and serves statistics about the imported hands.
//
// # Architecture
//
// On startup the application loads its YAML configuration, opens the
// configured store (SQLite by default, PostgreSQL optional), ensures the
// schema exists and processes the configured input file through the
// split/parse/store pipeline. With the server section enabled it then
// starts two HTTP servers:
//
//   - Ingestion Server (port 8080): Receives hand-history text via POST requests
//   - API Server (port 8081): Serves statistics over the imported hands
//
// # Usage
//
// Process the default input file (handhistory.txt) into handhistory.db:
//
//	go build -o handhistorydb .
//	./handhistorydb
//
// Process a specific export file:
//
//	./handhistorydb session-2024-11-02.txt
//
// Settings live in config.yaml next to the binary; every field has a
// working default, so the file is optional.
//
// # API Endpoints
//
// Ingestion Server (8080):
//   - POST /ingest - Accept a raw multi-hand blob, returns the run summary
//   - GET /health - Health check endpoint
//
// API Server (8081):
//   - GET /api/stats/summary - Summary statistics over imported hands
//   - GET /api/stats/by-type - Hand counts grouped by game type
//   - GET /api/hands/recent - Recently imported hands
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/kdelaney5/HandHistoryDB/src/config"
	"github.com/kdelaney5/HandHistoryDB/src/database"
	"github.com/kdelaney5/HandHistoryDB/src/gui/handlers"
	"github.com/kdelaney5/HandHistoryDB/src/ingest"
)

// configPath is where the optional YAML configuration is read from.
var configPath = "config.yaml"

// slogger provides structured logging throughout the application.
// main replaces it with a logger at the configured level.
var slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// healthHandler provides a health check endpoint that returns service status.
// It responds with a JSON object containing the service status and name.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	slogger.Info("Health check request", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]string{
		"status":  "ok",
		"service": "HandHistoryDB",
	}
	json.NewEncoder(w).Encode(response)
}

// makeIngestionHandler creates an HTTP handler for hand-history ingestion.
// It accepts POST requests whose body is a raw multi-hand blob, runs it
// through the same split/parse/store pipeline as the file import, and
// responds with the run summary as JSON.
//
// Returns appropriate HTTP status codes:
//   - 200 OK: Blob processed; the summary says how many hands were stored
//   - 400 Bad Request: Empty body or failed to read body
//   - 405 Method Not Allowed: Non-POST requests
func makeIngestionHandler(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slogger.Info("Ingestion request received",
			"method", r.Method,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		if r.Method != http.MethodPost {
			slogger.Warn("Invalid HTTP method", "method", r.Method, "remote_addr", r.RemoteAddr)
			w.WriteHeader(http.StatusMethodNotAllowed)
			w.Write([]byte("Method not allowed"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			slogger.Error("Failed to read request body", "error", err, "remote_addr", r.RemoteAddr)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Failed to read request body"))
			return
		}
		defer r.Body.Close()

		if len(body) == 0 {
			slogger.Warn("Empty request body received", "remote_addr", r.RemoteAddr)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Request body cannot be empty"))
			return
		}

		processor := ingest.NewProcessor(store, slogger)
		summary := processor.ProcessText(string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(summary)
	}
}

// createIngestionServer creates and configures the HTTP server for
// hand-history ingestion.
//
// Endpoints:
//   - POST /ingest: Accept hand-history text
//   - GET /health: Health check endpoint
func createIngestionServer(store database.Store, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ingest", makeIngestionHandler(store))
	mux.HandleFunc("/health", healthHandler)
	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

// createAPIServer creates and configures the HTTP server for the read API
// over imported hands.
func createAPIServer(store database.Store, addr string) *http.Server {
	mux := http.NewServeMux()

	apiHandlers := handlers.MakeAPIHandlers(store, slogger)
	for path, handler := range apiHandlers {
		mux.HandleFunc(path, handler)
	}

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

// openStore builds the configured persistence backend.
func openStore(cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Driver {
	case "", "sqlite":
		return database.NewSQLiteStore(cfg.Database.Path, slogger)
	case "postgres":
		return database.NewPostgresStore(cfg.Database.DSN, slogger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		slogger.Error("Failed to load configuration", "error", err, "path", configPath)
		os.Exit(1)
	}

	slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}))
	slogger.Info("Starting HandHistoryDB", "driver", cfg.Database.Driver)

	store, err := openStore(cfg)
	if err != nil {
		slogger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slogger.Error("Failed to close store", "error", err)
		}
	}()

	// A store without a usable schema means no useful work can happen.
	if err := store.EnsureSchema(); err != nil {
		slogger.Error("Failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// The sole optional argument is the input filename.
	inputFile := cfg.Ingest.InputFile
	if len(os.Args) > 1 {
		inputFile = os.Args[1]
	}

	processor := ingest.NewProcessor(store, slogger)
	summary, err := processor.Run(inputFile)
	if err != nil {
		slogger.Error("Failed to process hand history file", "error", err, "path", inputFile)
		os.Exit(1)
	}
	slogger.Info("Hand history import complete",
		"path", inputFile,
		"blocks", summary.Blocks,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"faults", summary.Faults,
		"store_failures", summary.StoreFailures)

	if !cfg.Server.Enabled {
		return
	}

	ingestionServer := createIngestionServer(store, cfg.Server.IngestionAddr)
	apiServer := createAPIServer(store, cfg.Server.APIAddr)

	slogger.Info("Starting HTTP servers")

	go func() {
		slogger.Info("Starting ingestion server", "addr", ingestionServer.Addr)
		if err := ingestionServer.ListenAndServe(); err != nil {
			slogger.Error("Ingestion server failed", "error", err, "addr", ingestionServer.Addr)
			os.Exit(1)
		}
	}()

	go func() {
		slogger.Info("Starting API server", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil {
			slogger.Error("API server failed", "error", err, "addr", apiServer.Addr)
			os.Exit(1)
		}
	}()

	slogger.Info("HandHistoryDB startup complete - servers running")
	select {}
}
