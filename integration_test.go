package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kdelaney5/HandHistoryDB/src/database"
	"github.com/kdelaney5/HandHistoryDB/src/gui/handlers"
	"github.com/kdelaney5/HandHistoryDB/src/ingest"
)

// Integration tests that exercise the complete application flow
func TestFullApplicationFlow(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_integration.db")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := database.NewSQLiteStore(tempFile, logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// Create test servers
	ingestionServer := createIngestionServer(store, ":8080")
	apiServer := createAPIServer(store, ":8081")

	ingestionTestServer := httptest.NewServer(ingestionServer.Handler)
	defer ingestionTestServer.Close()

	apiTestServer := httptest.NewServer(apiServer.Handler)
	defer apiTestServer.Close()

	// Step 1: Check health endpoints
	t.Run("Health Check", func(t *testing.T) {
		resp, err := http.Get(ingestionTestServer.URL + "/health")
		if err != nil {
			t.Fatalf("Failed to call ingestion health endpoint: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Ingestion health endpoint returned status %d, expected %d", resp.StatusCode, http.StatusOK)
		}
	})

	// Step 2: Ingest a multi-hand export with one garbage block
	t.Run("Data Ingestion", func(t *testing.T) {
		blob := strings.Join([]string{
			"PokerStars Hand #300000000001:  Hold'em No Limit ($0.01/$0.02 USD)\neveryonedoes: folds",
			"PokerStars Hand #300000000002: Tournament #991122, $0.98+$0.12 USD Hold'em No Limit - Level I (10/20)\neveryonedoes: raises",
			"header-only garbage with no hand number",
			"PokerStars Hand #300000000003:  Hold'em No Limit ($0.05/$0.10 USD)\nrivalplayer: folds",
		}, "\n\n\n")

		resp, err := http.Post(ingestionTestServer.URL+"/ingest", "text/plain", bytes.NewBufferString(blob))
		if err != nil {
			t.Fatalf("Failed to ingest hand blob: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Ingestion endpoint returned status %d, expected %d", resp.StatusCode, http.StatusOK)
		}

		var summary ingest.Summary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			t.Fatalf("Failed to decode ingestion summary: %v", err)
		}
		if summary.Blocks != 4 || summary.Stored != 3 || summary.Skipped != 1 {
			t.Errorf("Unexpected ingestion summary: %+v", summary)
		}
	})

	// Step 3: Verify data via API endpoints
	t.Run("API Data Retrieval", func(t *testing.T) {
		// Test summary stats
		resp, err := http.Get(apiTestServer.URL + "/api/stats/summary")
		if err != nil {
			t.Fatalf("Failed to call stats summary: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Stats summary returned status %d, expected %d", resp.StatusCode, http.StatusOK)
		}

		var statsResponse handlers.APIResponse
		err = json.NewDecoder(resp.Body).Decode(&statsResponse)
		if err != nil {
			t.Errorf("Failed to decode stats response: %v", err)
		}

		if !statsResponse.Success {
			t.Errorf("Stats API returned success=false: %v", statsResponse.Error)
		}

		statsData, ok := statsResponse.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("Stats data is not an object, got type: %T", statsResponse.Data)
		}
		if total := statsData["total_hands"]; total != float64(3) {
			t.Errorf("Expected total_hands 3, got %v", total)
		}
		if tournaments := statsData["tournament_hands"]; tournaments != float64(1) {
			t.Errorf("Expected tournament_hands 1, got %v", tournaments)
		}
		if latest := statsData["latest_hand_id"]; latest != float64(300000000003) {
			t.Errorf("Expected latest_hand_id 300000000003, got %v", latest)
		}

		// Test recent hands
		resp, err = http.Get(apiTestServer.URL + "/api/hands/recent?limit=2")
		if err != nil {
			t.Fatalf("Failed to call recent hands: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Recent hands returned status %d, expected %d", resp.StatusCode, http.StatusOK)
		}

		var handsResponse handlers.APIResponse
		err = json.NewDecoder(resp.Body).Decode(&handsResponse)
		if err != nil {
			t.Errorf("Failed to decode recent hands response: %v", err)
		}

		if !handsResponse.Success {
			t.Errorf("Recent hands API returned success=false: %v", handsResponse.Error)
		}

		handsData, ok := handsResponse.Data.([]interface{})
		if !ok {
			t.Fatalf("Recent hands data is not a slice, got type: %T", handsResponse.Data)
		}
		if len(handsData) != 2 {
			t.Fatalf("Expected 2 recent hands, got %d", len(handsData))
		}
		first, ok := handsData[0].(map[string]interface{})
		if !ok {
			t.Fatalf("Recent hand entry is not an object, got type: %T", handsData[0])
		}
		if first["hand_id"] != float64(300000000003) {
			t.Errorf("Expected newest hand first, got hand_id %v", first["hand_id"])
		}

		// Test counts by game type
		resp, err = http.Get(apiTestServer.URL + "/api/stats/by-type")
		if err != nil {
			t.Fatalf("Failed to call counts by game type: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Counts by game type returned status %d, expected %d", resp.StatusCode, http.StatusOK)
		}
	})
}

func TestFileIngestionFlow(t *testing.T) {
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, "test_file_flow.db")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := database.NewSQLiteStore(tempFile, logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// Write a hand history export file the way a poker client would
	inputPath := filepath.Join(tempDir, "handhistory.txt")
	blob := strings.Join([]string{
		"PokerStars Hand #400000000001:  Hold'em No Limit ($0.25/$0.50 USD)\neveryonedoes: folds before Flop (didn't bet)",
		"PokerStars Hand #400000000002: Tournament #7001, $5.00+$0.50 USD Hold'em No Limit - Level III (25/50)\neveryonedoes: calls 50",
	}, "\n\n\n")
	if err := os.WriteFile(inputPath, []byte(blob), 0o644); err != nil {
		t.Fatalf("Failed to write input file: %v", err)
	}

	processor := ingest.NewProcessor(store, logger)
	summary, err := processor.Run(inputPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Stored != 2 || summary.Skipped != 0 || summary.Faults != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	hands, err := store.GetAll()
	if err != nil {
		t.Fatalf("Failed to query final state: %v", err)
	}
	if len(hands) != 2 {
		t.Fatalf("Expected 2 hands, got %d", len(hands))
	}
	if hands[1].GameType != "Tournament" {
		t.Errorf("Expected tournament hand, got game type %q", hands[1].GameType)
	}

	// Re-running the same file must not duplicate rows, only report store failures.
	summary, err = processor.Run(inputPath)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.Stored != 0 || summary.StoreFailures != 2 {
		t.Errorf("Unexpected re-run summary: %+v", summary)
	}

	hands, err = store.GetAll()
	if err != nil {
		t.Fatalf("Failed to query after re-run: %v", err)
	}
	if len(hands) != 2 {
		t.Errorf("Expected 2 hands after re-run, got %d", len(hands))
	}
}

func TestErrorHandling(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_error_handling.db")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := database.NewSQLiteStore(tempFile, logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// Create servers
	ingestionServer := createIngestionServer(store, ":8080")
	apiServer := createAPIServer(store, ":8081")

	ingestionTestServer := httptest.NewServer(ingestionServer.Handler)
	defer ingestionTestServer.Close()

	apiTestServer := httptest.NewServer(apiServer.Handler)
	defer apiTestServer.Close()

	// Test invalid HTTP methods
	t.Run("Invalid Methods", func(t *testing.T) {
		// GET request to ingest endpoint should fail
		resp, err := http.Get(ingestionTestServer.URL + "/ingest")
		if err != nil {
			t.Fatalf("Failed to make GET request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405 for GET on ingest endpoint, got %d", resp.StatusCode)
		}

		// PUT request to ingest endpoint should fail
		req, _ := http.NewRequest("PUT", ingestionTestServer.URL+"/ingest", strings.NewReader("test"))
		client := &http.Client{}
		resp, err = client.Do(req)
		if err != nil {
			t.Fatalf("Failed to make PUT request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405 for PUT on ingest endpoint, got %d", resp.StatusCode)
		}
	})

	// Test empty request body
	t.Run("Empty Request Body", func(t *testing.T) {
		resp, err := http.Post(ingestionTestServer.URL+"/ingest", "text/plain", strings.NewReader(""))
		if err != nil {
			t.Fatalf("Failed to post empty body: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for empty body, got %d", resp.StatusCode)
		}
	})

	// Test invalid API endpoints
	t.Run("Invalid API Endpoints", func(t *testing.T) {
		resp, err := http.Get(apiTestServer.URL + "/api/nonexistent")
		if err != nil {
			t.Fatalf("Failed to call nonexistent endpoint: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for nonexistent endpoint, got %d", resp.StatusCode)
		}
	})

	// A blob that is nothing but unparseable blocks still returns the summary
	t.Run("All Blocks Skipped", func(t *testing.T) {
		blob := "first garbage block\n\n\nsecond garbage block"
		resp, err := http.Post(ingestionTestServer.URL+"/ingest", "text/plain", strings.NewReader(blob))
		if err != nil {
			t.Fatalf("Failed to post garbage blob: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200 for garbage blob, got %d", resp.StatusCode)
		}

		var summary ingest.Summary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			t.Fatalf("Failed to decode summary: %v", err)
		}
		if summary.Stored != 0 || summary.Skipped != 2 {
			t.Errorf("Unexpected summary: %+v", summary)
		}

		hands, err := store.GetAll()
		if err != nil {
			t.Fatalf("Failed to query database: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("Expected empty database, got %d hands", len(hands))
		}
	})
}
