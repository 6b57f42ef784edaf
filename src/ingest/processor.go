// Package ingest runs hand-history text through the split/parse/store
// pipeline.
//
// The Processor is the orchestration layer of the application: it owns the
// persistence handle and the logger, and drives the pure handhistory
// functions over a file or an in-memory blob. Faults are isolated per
// block; one unparseable or unstorable hand never aborts the rest of the
// run. The summary of a run reports what happened without any of it being
// an error.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/kdelaney5/HandHistoryDB/src/handhistory"
)

// Store is the slice of the persistence collaborator the processor needs.
type Store interface {
	InsertHand(hand handhistory.Hand) error
}

// Summary reports what happened during one ingestion run.
type Summary struct {
	Blocks        int  `json:"blocks"`         // raw blocks produced by the splitter
	Stored        int  `json:"stored"`         // hands parsed and persisted
	Skipped       int  `json:"skipped"`        // blocks without a hand identifier
	Faults        int  `json:"faults"`         // blocks that broke the parser
	StoreFailures int  `json:"store_failures"` // hands the store rejected
	SourceMissing bool `json:"source_missing,omitempty"`
}

// Processor drives hand-history text through split, parse and store.
type Processor struct {
	store  Store
	logger *slog.Logger
}

// NewProcessor creates a processor writing to store. A nil logger is
// replaced with a default stderr logger.
func NewProcessor(store Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Processor{store: store, logger: logger}
}

// Run reads the named file as UTF-8 text and processes every hand in it.
// A missing file is reported through Summary.SourceMissing and a log line,
// not an error; only a genuine read failure returns one.
func (p *Processor) Run(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Error("Hand history file not found", "path", path)
			return Summary{SourceMissing: true}, nil
		}
		return Summary{}, fmt.Errorf("read hand history file: %w", err)
	}

	p.logger.Info("Processing hand history file", "path", path, "bytes", len(data))
	return p.ProcessText(string(data)), nil
}

// ProcessText splits a raw multi-hand blob into blocks and parses and
// stores each one. Block-level problems are logged and counted but never
// escalate; the loop always reaches the last block.
func (p *Processor) ProcessText(text string) Summary {
	blocks := handhistory.Split(text)
	summary := Summary{Blocks: len(blocks)}

	for idx, block := range blocks {
		p.logger.Info("Processing hand", "block", idx+1)

		res := handhistory.Parse(block)
		switch res.Status {
		case handhistory.StatusSkip:
			p.logger.Warn("Hand number not found, skipping hand", "block", idx+1)
			summary.Skipped++
		case handhistory.StatusFault:
			p.logger.Error("Failed to parse hand history", "block", idx+1, "error", res.Err)
			summary.Faults++
		case handhistory.StatusHand:
			if err := p.store.InsertHand(*res.Hand); err != nil {
				p.logger.Error("Failed to insert hand", "hand_id", res.Hand.ID, "error", err)
				summary.StoreFailures++
				continue
			}
			summary.Stored++
		}
	}

	p.logger.Info("Ingestion run complete",
		"blocks", summary.Blocks,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"faults", summary.Faults,
		"store_failures", summary.StoreFailures)
	return summary
}
