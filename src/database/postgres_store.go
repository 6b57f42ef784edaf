package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/kdelaney5/HandHistoryDB/src/handhistory"
)

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// PostgresStore persists hand-history records in PostgreSQL. It offers the
// same contract as SQLiteStore for deployments where the hands should land
// in a shared server database instead of a local file.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore opens a PostgreSQL connection from a lib/pq DSN and
// verifies it with a ping. Call EnsureSchema before inserting.
func NewPostgresStore(dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	logger.Info("Opening PostgreSQL connection")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// EnsureSchema creates the hand_histories table and the game_type index if
// they don't exist. Idempotent.
func (s *PostgresStore) EnsureSchema() error {
	s.logger.Info("Creating hand_histories table if not exists")
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS hand_histories (
		hand_id         BIGINT PRIMARY KEY,
		tournament_id   BIGINT,
		game_type       VARCHAR(50),
		small_blind     NUMERIC(10, 2),
		big_blind       NUMERIC(10, 2),
		play_datetime   TIMESTAMP,
		player_count    INTEGER,
		button_seat     INTEGER,
		player_seat     INTEGER,
		hand_played     CHAR(1),
		result          NUMERIC(10, 2),
		raw_text        TEXT,
		structured_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_hand_histories_game_type ON hand_histories(game_type);`)
	if err != nil {
		s.logger.Error("Failed to create postgres schema", "error", err)
		return err
	}
	s.logger.Info("PostgreSQL schema setup completed successfully")
	return nil
}

// InsertHand stores one parsed hand as a single row.
func (s *PostgresStore) InsertHand(hand handhistory.Hand) error {
	doc, err := structuredJSON(hand)
	if err != nil {
		return err
	}

	s.logger.Info("Inserting hand", "hand_id", hand.ID, "game_type", hand.GameType)
	_, err = s.db.Exec(`INSERT INTO hand_histories (hand_id, game_type, small_blind, big_blind, hand_played, raw_text, structured_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		hand.ID, hand.GameType, hand.SmallBlind, hand.BigBlind, hand.HandPlayed, hand.RawText, doc)
	if err != nil {
		s.logger.Error("Failed to insert hand", "error", err, "hand_id", hand.ID)
		return fmt.Errorf("insert hand %d: %w", hand.ID, err)
	}
	return nil
}

// GetAll returns every stored hand ordered by hand id.
func (s *PostgresStore) GetAll() ([]StoredHand, error) {
	rows, err := s.db.Query(selectColumns + ` FROM hand_histories ORDER BY hand_id`)
	if err != nil {
		s.logger.Error("Failed to query all hands", "error", err)
		return nil, err
	}
	return scanHands(rows)
}

// Recent returns up to limit hands with the highest hand ids, newest first.
func (s *PostgresStore) Recent(limit int) ([]StoredHand, error) {
	rows, err := s.db.Query(selectColumns+` FROM hand_histories ORDER BY hand_id DESC LIMIT $1`, limit)
	if err != nil {
		s.logger.Error("Failed to query recent hands", "error", err, "limit", limit)
		return nil, err
	}
	return scanHands(rows)
}

// CountByGameType returns row counts grouped by game type.
func (s *PostgresStore) CountByGameType() ([]GameTypeCount, error) {
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
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}
