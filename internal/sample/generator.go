package sample

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/samplegen/internal/tts"
)

// Generator produces samples for a set of voices.
type Generator struct {
	synth   tts.Synthesizer
	store   *Store
	req     Request
	workers int
	force   bool
}

// Options configures a Generator.
type Options struct {
	// Workers bounds the number of synthesis requests in flight. Values
	// below 1 are treated as 1.
	Workers int

	// Force clears existing samples before the run and regenerates every voice.
	Force bool
}

// NewGenerator creates a Generator writing into store.
func NewGenerator(synth tts.Synthesizer, store *Store, req Request, opts Options) *Generator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		synth:   synth,
		store:   store,
		req:     req,
		workers: workers,
		force:   opts.Force,
	}
}

// GenerateOne produces the sample for a single voice. It never returns an
// error: every failure is folded into a Failed result so sibling voices are
// unaffected.
func (g *Generator) GenerateOne(ctx context.Context, voice string) Result {
	logger := slog.With("voice", voice)
	path := g.store.Path(voice)

	if !g.force && g.store.Exists(voice) {
		logger.Debug("sample exists, skipping", "path", path)
		return Skipped(voice, path)
	}

	start := time.Now()
	res, err := g.synth.Synthesize(ctx, g.req.Text, tts.SynthesizeOpts{
		Voice:  voice,
		Format: g.req.Format,
		Speed:  g.req.Speed,
	})
	if err != nil {
		logger.Warn("synthesis failed", "error", err)
		return Failed(voice, err)
	}
	if len(res.Audio) == 0 {
		logger.Warn("synthesis returned no audio")
		return Failed(voice, fmt.Errorf("empty audio response"))
	}

	written, err := g.store.Save(voice, res.Audio)
	if err != nil {
		logger.Warn("saving sample failed", "error", err)
		return Failed(voice, err)
	}

	logger.Info("sample generated", "bytes", len(res.Audio), "duration", time.Since(start))
	return Generated(voice, written, len(res.Audio))
}

// Run generates samples for all voices with at most Workers in flight.
// onResult, if non-nil, is called from a single goroutine for each result
// in completion order, with i counting from 1. The returned summary always
// accounts for every voice.
func (g *Generator) Run(ctx context.Context, voices []string, onResult func(i, total int, r Result)) Summary {
	start := time.Now()

	if g.force {
		removed, err := g.store.Clear()
		if err != nil {
			slog.Warn("clearing samples failed", "dir", g.store.Dir(), "error", err)
		} else {
			slog.Info("cleared existing samples", "dir", g.store.Dir(), "removed", removed)
		}
	}

	results := make(chan Result, g.workers)

	// Units never return errors, so the group is only a bounded pool.
	var pool errgroup.Group
	pool.SetLimit(g.workers)

	go func() {
		for _, voice := range voices {
			pool.Go(func() error {
				results <- g.GenerateOne(ctx, voice)
				return nil
			})
		}
		_ = pool.Wait()
		close(results)
	}()

	var summary Summary
	total := len(voices)
	i := 0
	for r := range results {
		i++
		summary.add(r)
		if onResult != nil {
			onResult(i, total, r)
		}
	}

	summary.Elapsed = time.Since(start)
	slog.Info("batch complete",
		"generated", summary.Generated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed)
	return summary
}
