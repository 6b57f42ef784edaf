package handhistory

import "strings"

// BlockSeparator divides individual hands in a multi-hand export file.
// The format uses exactly three consecutive newlines; exports with other
// conventions (two newlines, CRLF line endings) must be normalized before
// ingestion or they will under- or over-split.
const BlockSeparator = "\n\n\n"

// Split divides the full text of a hand-history file into per-hand blocks.
// It performs no validation of block content: empty blocks, including a
// trailing one after a final separator, are returned as-is and later
// rejected by Parse for lacking a hand identifier. An input without any
// separator yields a single block equal to the whole input.
func Split(text string) []string {
	return strings.Split(text, BlockSeparator)
}
