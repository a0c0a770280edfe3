// Package report prints the human-facing progress of a sample run.
//
// It is deliberately separate from slog: these lines are the tool's output,
// while slog carries diagnostics on stderr.
package report

import (
	"fmt"
	"io"

	"github.com/nadzzz/samplegen/internal/sample"
)

// Printer writes progress lines to w.
type Printer struct {
	w io.Writer
}

// New creates a Printer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Fetching announces the voice listing request.
func (p *Printer) Fetching(apiURL string) {
	fmt.Fprintf(p.w, "Fetching voices from %s...\n", apiURL)
}

// Unreachable explains why the run cannot start.
func (p *Printer) Unreachable(apiURL string, err error) {
	fmt.Fprintf(p.w, "ERROR: Could not connect to API at %s: %v\n", apiURL, err)
	fmt.Fprintln(p.w, "Make sure the Kokoro FastAPI service is running.")
}

// Header describes the run before any sample work starts.
func (p *Printer) Header(voices int, text, outputDir string, batchSize int) {
	fmt.Fprintf(p.w, "Found %d voices\n", voices)
	fmt.Fprintf(p.w, "Sample text: %q\n", text)
	fmt.Fprintf(p.w, "Output directory: %s\n", outputDir)
	fmt.Fprintf(p.w, "Batch size: %d\n", batchSize)
	fmt.Fprintln(p.w)
}

// Cleared reports the force reset.
func (p *Printer) Cleared() {
	fmt.Fprintln(p.w, "Clearing existing samples (--force)")
}

// Result prints one completed voice.
func (p *Printer) Result(i, total int, r sample.Result) {
	switch r.Status {
	case sample.StatusGenerated:
		fmt.Fprintf(p.w, "  [%d/%d] %s - %.1f KB\n", i, total, r.Voice, r.SizeKB())
	case sample.StatusSkipped:
		fmt.Fprintf(p.w, "  [%d/%d] %s - skipped (exists)\n", i, total, r.Voice)
	default:
		fmt.Fprintf(p.w, "  [%d/%d] %s - ERROR: %v\n", i, total, r.Voice, r.Err)
	}
}

// Summary prints the aggregate counts and elapsed time.
func (p *Printer) Summary(s sample.Summary) {
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "Done in %.1fs\n", s.Elapsed.Seconds())
	fmt.Fprintf(p.w, "  Generated: %d\n", s.Generated)
	fmt.Fprintf(p.w, "  Skipped:   %d\n", s.Skipped)
	fmt.Fprintf(p.w, "  Errors:    %d\n", s.Failed)
	fmt.Fprintf(p.w, "  Total:     %d\n", s.Total())
}
