package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kdelaney5/HandHistoryDB/src/handhistory"
)

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists hand-history records in a local SQLite database.
// It encapsulates the database connection and provides methods for
// inserting and querying hands with structured logging.
type SQLiteStore struct {
	db     *sql.DB      // SQLite database connection
	logger *slog.Logger // Structured logger for database operations
}

// NewSQLiteStore opens (or creates) a SQLite database at the specified path
// and verifies the connection. Schema creation is a separate step; call
// EnsureSchema before inserting.
//
// Parameters:
//   - path: Database file path. If empty, defaults to "handhistory.db"
//   - logger: Logger for database operations. If nil, creates a default logger
//
// Returns:
//   - *SQLiteStore: Configured store
//   - error: Any error encountered while opening the database
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		path = "handhistory.db"
	}
	if logger == nil {
		// Create a no-op logger if none provided
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	logger.Info("Opening SQLite database", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logger.Error("Failed to open SQLite database", "error", err, "path", path)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping SQLite database", "error", err, "path", path)
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// EnsureSchema creates the hand_histories table and the game_type index if
// they don't exist. Both statements use IF NOT EXISTS, so calling this
// repeatedly produces no duplicate structures and no error.
func (s *SQLiteStore) EnsureSchema() error {
	s.logger.Info("Creating hand_histories table if not exists")
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS hand_histories (
		hand_id         INTEGER PRIMARY KEY,
		tournament_id   INTEGER,
		game_type       VARCHAR(50),
		small_blind     NUMERIC,
		big_blind       NUMERIC,
		play_datetime   DATETIME,
		player_count    INTEGER,
		button_seat     INTEGER,
		player_seat     INTEGER,
		hand_played     CHAR(1),
		result          NUMERIC,
		raw_text        TEXT,
		structured_json TEXT
	);`)
	if err != nil {
		s.logger.Error("Failed to create hand_histories table", "error", err)
		return err
	}

	s.logger.Info("Creating game_type index if not exists")
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_hand_histories_game_type ON hand_histories(game_type);`)
	if err != nil {
		s.logger.Error("Failed to create game_type index", "error", err)
		return err
	}

	s.logger.Info("SQLite schema setup completed successfully")
	return nil
}

// InsertHand stores one parsed hand as a single row. Columns the parser
// does not populate are left NULL. A duplicate hand id violates the
// primary key and returns an error; the caller decides whether to care.
func (s *SQLiteStore) InsertHand(hand handhistory.Hand) error {
	doc, err := structuredJSON(hand)
	if err != nil {
		return err
	}

	s.logger.Info("Inserting hand", "hand_id", hand.ID, "game_type", hand.GameType)
	_, err = s.db.Exec(`INSERT INTO hand_histories (hand_id, game_type, small_blind, big_blind, hand_played, raw_text, structured_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		hand.ID, hand.GameType, hand.SmallBlind, hand.BigBlind, hand.HandPlayed, hand.RawText, doc)
	if err != nil {
		s.logger.Error("Failed to insert hand", "error", err, "hand_id", hand.ID)
		return fmt.Errorf("insert hand %d: %w", hand.ID, err)
	}
	s.logger.Info("Hand inserted successfully", "hand_id", hand.ID)
	return nil
}

// GetAll returns every stored hand ordered by hand id. Use with caution on
// large datasets as it loads all records into memory; prefer Recent for
// bounded reads.
func (s *SQLiteStore) GetAll() ([]StoredHand, error) {
	s.logger.Info("Querying all hands")
	rows, err := s.db.Query(selectColumns + ` FROM hand_histories ORDER BY hand_id`)
	if err != nil {
		s.logger.Error("Failed to query all hands", "error", err)
		return nil, err
	}
	out, err := scanHands(rows)
	if err != nil {
		s.logger.Error("Failed to scan hand rows", "error", err)
		return nil, err
	}
	s.logger.Info("Query all completed successfully", "count", len(out))
	return out, nil
}

// Recent returns up to limit hands with the highest hand ids, newest first.
func (s *SQLiteStore) Recent(limit int) ([]StoredHand, error) {
	s.logger.Info("Querying recent hands", "limit", limit)
	rows, err := s.db.Query(selectColumns+` FROM hand_histories ORDER BY hand_id DESC LIMIT ?`, limit)
	if err != nil {
		s.logger.Error("Failed to query recent hands", "error", err, "limit", limit)
		return nil, err
	}
	out, err := scanHands(rows)
	if err != nil {
		s.logger.Error("Failed to scan hand rows", "error", err)
		return nil, err
	}
	return out, nil
}

// CountByGameType returns row counts grouped by game type.
func (s *SQLiteStore) CountByGameType() ([]GameTypeCount, error) {
	s.logger.Info("Querying hand counts by game type")
	rows, err := s.db.Query(`SELECT game_type, COUNT(*) FROM hand_histories GROUP BY game_type ORDER BY game_type`)
	if err != nil {
		s.logger.Error("Failed to query counts by game type", "error", err)
		return nil, err
	}
	defer rows.Close()
	var out []GameTypeCount
	for rows.Next() {
		var c GameTypeCount
		if err := rows.Scan(&c.GameType, &c.Count); err != nil {
			s.logger.Error("Failed to scan count row", "error", err)
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the database connection and releases associated resources.
func (s *SQLiteStore) Close() error {
	s.logger.Info("Closing database connection")
	err := s.db.Close()
	if err != nil {
		s.logger.Error("Failed to close database", "error", err)
	}
	return err
}

// selectColumns lists the full hand_histories column set in StoredHand
// field order, shared by every row-returning query.
const selectColumns = `SELECT hand_id, tournament_id, game_type, small_blind, big_blind,
	play_datetime, player_count, button_seat, player_seat, hand_played, result, raw_text, structured_json`

// scanHands drains rows into StoredHand values and closes the cursor.
func scanHands(rows *sql.Rows) ([]StoredHand, error) {
	defer rows.Close()
	var out []StoredHand
	for rows.Next() {
		var h StoredHand
		err := rows.Scan(&h.HandID, &h.TournamentID, &h.GameType, &h.SmallBlind, &h.BigBlind,
			&h.PlayDateTime, &h.PlayerCount, &h.ButtonSeat, &h.PlayerSeat, &h.HandPlayed,
			&h.Result, &h.RawText, &h.StructuredJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
