// Package tts defines the interfaces samplegen uses to talk to a
// text-to-speech service.
//
// A backend lists the voices it can speak with and renders text in one of
// them. The batch generator only depends on these contracts, so tests can
// swap in fakes and other OpenAI-compatible servers can be added later.
package tts

import (
	"context"
	"errors"
)

// ErrServiceUnreachable is returned (wrapped) when the service cannot be
// reached or does not answer the voice listing successfully.
var ErrServiceUnreachable = errors.New("tts service unreachable")

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Voice is the service-defined voice identifier (e.g., "af_bella").
	Voice string

	// Format is the requested audio encoding (e.g., "mp3").
	Format string

	// Speed is the speaking-rate multiplier; 1.0 is normal speed.
	Speed float64
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	// Audio is the encoded audio exactly as returned by the service.
	Audio []byte

	// ContentType is the MIME type reported by the service (e.g., "audio/mpeg").
	ContentType string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize renders text in the requested voice. Each call is a single
	// attempt; callers decide what a failure means.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// VoiceLister discovers the voices a service offers.
type VoiceLister interface {
	// ListVoices returns the voice identifiers in the order the service sent them.
	ListVoices(ctx context.Context) ([]string, error)
}
