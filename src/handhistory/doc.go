// Package handhistory parses PokerStars hand-history export text into
// structured records.
//
// A hand-history file is a plain-text log of many hands. Hands are separated
// by exactly three consecutive newline characters; Split divides the file
// content on that delimiter and Parse turns each resulting block into a Hand.
//
// # Parsing Contract
//
// Parse returns a tagged Result rather than (value, error) so callers can
// tell "no record produced, by design" apart from a genuine fault:
//
//	res := handhistory.Parse(block)
//	switch res.Status {
//	case handhistory.StatusHand:
//		// res.Hand carries the extracted fields
//	case handhistory.StatusSkip:
//		// block has no hand identifier; expected for trailing fragments
//	case handhistory.StatusFault:
//		// res.Err describes what broke
//	}
//
// A Hand is only ever produced with a hand identifier; every other field is
// optional. Blinds come from either the cash-game stakes in the header
// (e.g. "($0.01/$0.02") or a tournament level line (e.g. "Level I (10/20)"),
// checked in that order. The game type is decided independently of the blind
// format: any block containing the word "Tournament" is classified as a
// tournament, even when its stakes look like a cash game.
//
// # Extracted Fields
//
//	hand id      "PokerStars Hand #<digits>:" header, required
//	blinds       decimal-preserving, optional
//	game type    "Tournament" or "Cash"
//	hand played  "N" when the hand folded out before the flop, else "Y"
//	raw text     the original block, retained for storage
package handhistory
