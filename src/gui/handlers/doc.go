// Package handlers implements the HTTP read API of HandHistoryDB.
//
// The package bridges HTTP requests and the hand store: it exposes the
// statistics and recent-hand queries as JSON endpoints so imported data can
// be inspected without touching the database directly.
//
// # Handlers
//
// MakeAPIHandlers returns a map of URL paths to handler functions, ready to
// be registered on a mux:
//
//	store, _ := database.NewSQLiteStore("handhistory.db", logger)
//	for path, handler := range handlers.MakeAPIHandlers(store, logger) {
//		mux.HandleFunc(path, handler)
//	}
//
// Each handler wraps its payload in the APIResponse envelope and reports
// store failures as HTTP 500 with an error message. The handlers are
// read-only; ingestion happens through the file pipeline or the ingestion
// server in main.
package handlers
