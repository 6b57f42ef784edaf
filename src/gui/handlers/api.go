// Package handlers provides REST API endpoints over the stored hand data.
//
// This file implements HTTP handlers for serving parsed hand-history
// records through RESTful APIs: statistical summaries and recent-hand
// listings backed by the database package.
//
// # API Endpoints
//
//   - /api/stats/summary: Summary statistics (hand counts, game types, played/folded)
//   - /api/stats/by-type: Row counts grouped by game type
//   - /api/hands/recent: Most recently imported hands (configurable limit)
//
// # Response Format
//
// All API responses follow a consistent JSON structure:
//
//	{
//		"success": true,
//		"data": {...},
//		"error": null
//	}
//
// Error responses include an error message and set success to false.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kdelaney5/HandHistoryDB/src/database"
)

// APIResponse wraps all API responses in a consistent format.
// This structure ensures uniform response handling across all API endpoints.
type APIResponse struct {
	Success bool        `json:"success"`         // Indicates if the request was successful
	Data    interface{} `json:"data,omitempty"`  // Response data (present on success)
	Error   string      `json:"error,omitempty"` // Error message (present on failure)
}

// HandStats represents summary statistics over the stored hands.
type HandStats struct {
	TotalHands      int64 `json:"total_hands"`      // Total number of stored hands
	TournamentHands int64 `json:"tournament_hands"` // Hands classified as tournaments
	CashHands       int64 `json:"cash_hands"`       // Hands classified as cash games
	PlayedHands     int64 `json:"played_hands"`     // Hands with hand_played = "Y"
	FoldedHands     int64 `json:"folded_hands"`     // Hands with hand_played = "N"
	LatestHandID    int64 `json:"latest_hand_id"`   // Highest hand id seen so far
}

// HandView is the JSON projection of one stored hand. Null database
// columns become null JSON fields; blinds keep their decimal text form.
type HandView struct {
	HandID     int64   `json:"hand_id"`
	GameType   string  `json:"game_type"`
	SmallBlind *string `json:"small_blind"`
	BigBlind   *string `json:"big_blind"`
	HandPlayed string  `json:"hand_played"`
}

// defaultRecentLimit bounds /api/hands/recent when no limit is given.
const defaultRecentLimit = 25

// MakeAPIHandlers creates and configures all API endpoint handlers.
// This function returns a map of URL paths to their corresponding HTTP
// handlers, providing a centralized way to register all API endpoints.
//
// Parameters:
//   - store: Hand store for data access
//   - logger: Structured logger for request logging
//
// Returns:
//   - map[string]http.HandlerFunc: Map of API paths to handler functions
func MakeAPIHandlers(store database.Store, logger *slog.Logger) map[string]http.HandlerFunc {
	handlers := make(map[string]http.HandlerFunc)

	// Summary statistics endpoint
	handlers["/api/stats/summary"] = func(w http.ResponseWriter, r *http.Request) {
		logger.Info("API request: summary stats", "remote_addr", r.RemoteAddr)

		hands, err := store.GetAll()
		if err != nil {
			logger.Error("Failed to get hands for stats", "error", err)
			sendErrorResponse(w, "Failed to fetch statistics")
			return
		}

		sendSuccessResponse(w, calculateStats(hands))
	}

	// Per-game-type counts endpoint
	handlers["/api/stats/by-type"] = func(w http.ResponseWriter, r *http.Request) {
		logger.Info("API request: counts by game type", "remote_addr", r.RemoteAddr)

		counts, err := store.CountByGameType()
		if err != nil {
			logger.Error("Failed to count hands by game type", "error", err)
			sendErrorResponse(w, "Failed to fetch game type counts")
			return
		}

		sendSuccessResponse(w, counts)
	}

	// Recent hands endpoint
	handlers["/api/hands/recent"] = func(w http.ResponseWriter, r *http.Request) {
		logger.Info("API request: recent hands", "remote_addr", r.RemoteAddr)

		limit := defaultRecentLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
				limit = l
			}
		}

		hands, err := store.Recent(limit)
		if err != nil {
			logger.Error("Failed to query recent hands", "error", err, "limit", limit)
			sendErrorResponse(w, "Failed to fetch recent hands")
			return
		}

		views := make([]HandView, 0, len(hands))
		for _, h := range hands {
			views = append(views, makeHandView(h))
		}
		sendSuccessResponse(w, views)
	}

	return handlers
}

// sendSuccessResponse sends a successful API response with the provided data.
func sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*") // Enable CORS for local development
	response := APIResponse{Success: true, Data: data}
	json.NewEncoder(w).Encode(response)
}

// sendErrorResponse sends an error API response with the provided message.
func sendErrorResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusInternalServerError)
	response := APIResponse{Success: false, Error: message}
	json.NewEncoder(w).Encode(response)
}

// calculateStats computes summary statistics from the stored hands.
// Handles the empty dataset by returning zeroed stats.
func calculateStats(hands []database.StoredHand) HandStats {
	stats := HandStats{TotalHands: int64(len(hands))}

	for _, h := range hands {
		switch h.GameType {
		case "Tournament":
			stats.TournamentHands++
		case "Cash":
			stats.CashHands++
		}
		switch h.HandPlayed {
		case "Y":
			stats.PlayedHands++
		case "N":
			stats.FoldedHands++
		}
		if h.HandID > stats.LatestHandID {
			stats.LatestHandID = h.HandID
		}
	}

	return stats
}

// makeHandView converts a stored row into its JSON projection.
func makeHandView(h database.StoredHand) HandView {
	view := HandView{
		HandID:     h.HandID,
		GameType:   h.GameType,
		HandPlayed: h.HandPlayed,
	}
	if h.SmallBlind.Valid {
		s := h.SmallBlind.Decimal.String()
		view.SmallBlind = &s
	}
	if h.BigBlind.Valid {
		s := h.BigBlind.Decimal.String()
		view.BigBlind = &s
	}
	return view
}
