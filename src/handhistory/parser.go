package handhistory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Game type classifications for a hand.
const (
	GameTypeTournament = "Tournament"
	GameTypeCash       = "Cash"
)

// hand_played flags stored alongside each hand.
const (
	HandPlayedYes = "Y"
	HandPlayedNo  = "N"
)

// Hand holds the fields extracted from a single hand-history block.
// ID is the only required field; blinds are unset when neither stake
// pattern matches the block.
type Hand struct {
	ID         int64               // unique hand identifier from the header line
	SmallBlind decimal.NullDecimal // small blind, decimal-preserving
	BigBlind   decimal.NullDecimal // big blind, decimal-preserving
	GameType   string              // GameTypeTournament or GameTypeCash
	HandPlayed string              // HandPlayedYes or HandPlayedNo
	RawText    string              // original block content, retained for storage
}

// Status tags the outcome of parsing one block.
type Status int

const (
	// StatusHand means a record was produced.
	StatusHand Status = iota
	// StatusSkip means the block carries no hand identifier. This is
	// expected for empty or trailing fragments and is not an error.
	StatusSkip
	// StatusFault means something actually broke while parsing a block
	// that looked like a hand.
	StatusFault
)

// Result is the tagged outcome of Parse. Hand is set only for StatusHand
// and Err only for StatusFault.
type Result struct {
	Status Status
	Hand   *Hand
	Err    error
}

var (
	handIDPattern      = regexp.MustCompile(`PokerStars Hand #(\d+):`)
	cashStakesPattern  = regexp.MustCompile(`\(\$(\d+\.\d+)/\$(\d+\.\d+)`)
	levelBlindsPattern = regexp.MustCompile(`Level \w+ \((\d+)/(\d+)\)`)
)

// foldMarkers are the exact phrases marking a hand that ended before the
// flop without a bet. "everyonedoes" is a literal token in the source data,
// not a player name; do not generalize these to arbitrary players without
// confirming the real export format.
var foldMarkers = []string{
	"everyonedoes folded before Flop (didn't bet)",
	"everyonedoes (button) folded before Flop (didn't bet)",
}

// Parse extracts a Hand from one raw block of hand-history text.
//
// The block must contain a "PokerStars Hand #<digits>:" header; without one
// the result is StatusSkip and the caller should drop the block. Blinds are
// taken from the cash-game stakes pattern first, then from the tournament
// level pattern, and left unset when neither matches. The game type and the
// hand-played flag are derived from substring checks over the whole block.
func Parse(block string) Result {
	idMatch := handIDPattern.FindStringSubmatch(block)
	if idMatch == nil {
		return Result{Status: StatusSkip}
	}
	id, err := strconv.ParseInt(idMatch[1], 10, 64)
	if err != nil {
		return Result{Status: StatusFault, Err: fmt.Errorf("hand id %q: %w", idMatch[1], err)}
	}

	hand := &Hand{ID: id, RawText: block}

	// Cash stakes win over tournament level blinds when both appear.
	if m := cashStakesPattern.FindStringSubmatch(block); m != nil {
		if err := setBlinds(hand, m[1], m[2]); err != nil {
			return Result{Status: StatusFault, Err: err}
		}
	} else if m := levelBlindsPattern.FindStringSubmatch(block); m != nil {
		if err := setBlinds(hand, m[1], m[2]); err != nil {
			return Result{Status: StatusFault, Err: err}
		}
	}

	// The game type is decided by the word alone, independent of which
	// blind pattern matched: a block with cash-looking stakes still counts
	// as a tournament if "Tournament" appears anywhere in its text.
	if strings.Contains(block, "Tournament") {
		hand.GameType = GameTypeTournament
	} else {
		hand.GameType = GameTypeCash
	}

	hand.HandPlayed = HandPlayedYes
	for _, marker := range foldMarkers {
		if strings.Contains(block, marker) {
			hand.HandPlayed = HandPlayedNo
			break
		}
	}

	return Result{Status: StatusHand, Hand: hand}
}

// setBlinds parses both captured stake amounts and stores them on the hand.
// The captures come from digit-only regexp groups, so failures here indicate
// genuinely malformed numeric text and surface as StatusFault.
func setBlinds(hand *Hand, small, big string) error {
	sb, err := decimal.NewFromString(small)
	if err != nil {
		return fmt.Errorf("small blind %q: %w", small, err)
	}
	bb, err := decimal.NewFromString(big)
	if err != nil {
		return fmt.Errorf("big blind %q: %w", big, err)
	}
	hand.SmallBlind = decimal.NullDecimal{Decimal: sb, Valid: true}
	hand.BigBlind = decimal.NullDecimal{Decimal: bb, Valid: true}
	return nil
}
