// Package limiter narrows processed data sets to a record window driven by
// the --limit, --offset, and --tail command-line flags.
package limiter

import (
	"fmt"

	"github.com/Sphmer/vsr/internal/processor"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}

	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}

	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply narrows p to the configured record window. Column statistics on the
// returned set describe only the surviving rows.
func (c Config) Apply(p *processor.ProcessedDataSet) *processor.ProcessedDataSet {
	if !c.IsActive() {
		return p
	}

	length := len(p.Rows)

	if c.Tail > 0 {
		start := length - c.Tail
		if start < 0 {
			start = 0
		}
		return processor.Window(p, start, length)
	}

	start := c.Offset
	if start > length {
		start = length
	}

	end := length
	if c.Limit > 0 {
		end = start + c.Limit
	}

	return processor.Window(p, start, end)
}

// ApplyAll narrows every set in sets, preserving order.
func (c Config) ApplyAll(sets []*processor.ProcessedDataSet) []*processor.ProcessedDataSet {
	if !c.IsActive() {
		return sets
	}
	out := make([]*processor.ProcessedDataSet, len(sets))
	for i, p := range sets {
		out[i] = c.Apply(p)
	}
	return out
}
