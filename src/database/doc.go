// Package database provides relational persistence for parsed poker hands.
//
// This package implements the storage side of HandHistoryDB: a Store
// interface with SQLite and PostgreSQL implementations for persisting
// hand-history records and serving the read API.
//
// # Usage
//
// Create a SQLite-backed store:
//
//	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
//	store, err := database.NewSQLiteStore("handhistory.db", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//	if err := store.EnsureSchema(); err != nil {
//		log.Fatal(err)
//	}
//
// Insert a parsed hand:
//
//	err = store.InsertHand(hand)
//	if err != nil {
//		log.Printf("Failed to insert hand: %v", err)
//	}
//
// # Database Schema
//
// Both implementations maintain a single table 'hand_histories':
//
//	CREATE TABLE hand_histories (
//		hand_id         INTEGER PRIMARY KEY,
//		tournament_id   INTEGER,
//		game_type       VARCHAR(50),
//		small_blind     NUMERIC,
//		big_blind       NUMERIC,
//		play_datetime   DATETIME,
//		player_count    INTEGER,
//		button_seat     INTEGER,
//		player_seat     INTEGER,
//		hand_played     CHAR(1),
//		result          NUMERIC,
//		raw_text        TEXT,
//		structured_json TEXT
//	);
//
// hand_id is the unique key; inserting the same hand twice fails and the
// caller decides whether that matters. The parser populates hand_id,
// game_type, small_blind, big_blind, hand_played, raw_text and
// structured_json; the remaining columns are reserved for richer exports
// and stay NULL. Schema creation is idempotent (IF NOT EXISTS) and an index
// on game_type supports the per-type statistics queries.
package database
