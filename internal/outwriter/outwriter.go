// Package outwriter has output and writer logic for series summaries.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	"golang.org/x/term"
)

// Table width bounds for the input path in the footer.
const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	minPathWidth     = 15
	maxPathWidth     = 100
	footerPrefixLen  = 16 // "Summarized from " plus padding
)

// OutWriter writes summaries to stdout or to the configured output file.
type OutWriter struct {
	stdout io.Writer
}

var _ contract.SummaryWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// WriteSummaries implements the SummaryWriter interface.
func (ow *OutWriter) WriteSummaries(summaries []schema.SeriesSummary, parse schema.ParseStats, cfg *contract.Config, duration time.Duration) error {
	return WriteSummaries(ow.stdout, summaries, parse, cfg, duration)
}

// GetMaxTablePathWidth calculates the maximum width for the input path in table output
// based on terminal width.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width // Absolute width override from flag/env

	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = defaultTermWidth
		} else {
			termWidth = detectedWidth
		}
	}

	available := termWidth - footerPrefixLen
	return min(max(available, minPathWidth), maxPathWidth)
}
