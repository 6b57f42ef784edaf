package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kdelaney5/HandHistoryDB/src/handhistory"
)

// StoredHand mirrors one row of the hand_histories table. Columns the
// parser does not populate use database/sql null types and stay NULL.
type StoredHand struct {
	HandID         int64
	TournamentID   sql.NullInt64
	GameType       string
	SmallBlind     decimal.NullDecimal
	BigBlind       decimal.NullDecimal
	PlayDateTime   sql.NullTime
	PlayerCount    sql.NullInt64
	ButtonSeat     sql.NullInt64
	PlayerSeat     sql.NullInt64
	HandPlayed     string
	Result         decimal.NullDecimal
	RawText        string
	StructuredJSON sql.NullString
}

// GameTypeCount is one row of the per-game-type statistics query.
type GameTypeCount struct {
	GameType string `json:"game_type"`
	Count    int64  `json:"count"`
}

// Store persists parsed hands and serves the read API. Implementations are
// single-writer and issue one statement at a time; no transactional
// guarantees exist beyond the single-row insert.
type Store interface {
	// EnsureSchema creates the hand_histories table and its indexes if
	// they don't exist. Safe to call repeatedly.
	EnsureSchema() error
	// InsertHand stores one parsed hand as a single row. A duplicate
	// hand id violates the primary key and returns an error.
	InsertHand(hand handhistory.Hand) error
	// GetAll returns every stored hand ordered by hand id.
	GetAll() ([]StoredHand, error)
	// Recent returns up to limit hands with the highest hand ids.
	// PokerStars hand ids increase over time, so this is newest-first.
	Recent(limit int) ([]StoredHand, error)
	// CountByGameType returns row counts grouped by game type.
	CountByGameType() ([]GameTypeCount, error)
	// Close releases the underlying connection.
	Close() error
}

// handDocument is the JSON projection of the parsed fields kept in the
// structured_json column alongside the raw text.
type handDocument struct {
	HandID     int64               `json:"hand_id"`
	GameType   string              `json:"game_type"`
	SmallBlind decimal.NullDecimal `json:"small_blind"`
	BigBlind   decimal.NullDecimal `json:"big_blind"`
	HandPlayed string              `json:"hand_played"`
}

// structuredJSON renders the parsed fields of a hand as the JSON document
// stored next to the raw text.
func structuredJSON(hand handhistory.Hand) (string, error) {
	doc := handDocument{
		HandID:     hand.ID,
		GameType:   hand.GameType,
		SmallBlind: hand.SmallBlind,
		BigBlind:   hand.BigBlind,
		HandPlayed: hand.HandPlayed,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal hand %d: %w", hand.ID, err)
	}
	return string(data), nil
}
