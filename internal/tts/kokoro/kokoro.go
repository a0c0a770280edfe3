// Package kokoro implements the TTS interfaces against a Kokoro FastAPI server.
//
// Kokoro exposes an OpenAI-compatible HTTP API:
//
//	GET  /v1/audio/voices  -> {"voices": ["af_bella", "am_adam", ...]}
//	POST /v1/audio/speech  -> raw audio bytes
//
// The server usually runs locally in a container on port 8880 and renders
// on the CPU, so synthesis calls get a much longer deadline than listing.
package kokoro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/samplegen/internal/config"
	"github.com/nadzzz/samplegen/internal/tts"
)

const (
	voicesPath = "/v1/audio/voices"
	speechPath = "/v1/audio/speech"
)

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements tts.Synthesizer and tts.VoiceLister for Kokoro.
type Client struct {
	baseURL           string
	model             string
	listTimeout       time.Duration
	synthesizeTimeout time.Duration
	client            HTTPClient
}

var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c HTTPClient) Option {
	return func(k *Client) {
		if c != nil {
			k.client = c
		}
	}
}

// New creates a new Kokoro client from config.
func New(cfg config.KokoroConfig, opts ...Option) *Client {
	model := cfg.Model
	if model == "" {
		model = "kokoro"
	}
	listTimeout := cfg.ListTimeout
	if listTimeout <= 0 {
		listTimeout = 10 * time.Second
	}
	synthTimeout := cfg.SynthesizeTimeout
	if synthTimeout <= 0 {
		synthTimeout = 120 * time.Second
	}

	c := &Client{
		baseURL:           strings.TrimRight(cfg.APIURL, "/"),
		model:             model,
		listTimeout:       listTimeout,
		synthesizeTimeout: synthTimeout,
		client:            &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type voicesResponse struct {
	Voices []string `json:"voices"`
}

// ListVoices fetches the available voice identifiers. Every failure wraps
// tts.ErrServiceUnreachable, since no partial list is usable.
func (c *Client) ListVoices(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	url := c.baseURL + voicesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for %s: %v", tts.ErrServiceUnreachable, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", tts.ErrServiceUnreachable, url, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: GET %s (status %d): %s",
			tts.ErrServiceUnreachable, url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding voices from %s: %v", tts.ErrServiceUnreachable, url, err)
	}

	slog.Debug("kokoro voices listed", "count", len(out.Voices), "url", url)
	return out.Voices, nil
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Stream         bool    `json:"stream"`
	Speed          float64 `json:"speed"`
}

// Synthesize renders text in opts.Voice and returns the audio bytes verbatim.
func (c *Client) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}

	format := opts.Format
	if format == "" {
		format = "mp3"
	}
	speed := opts.Speed
	if speed == 0 {
		speed = 1.0
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          opts.Voice,
		ResponseFormat: format,
		Stream:         false,
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling speech request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.synthesizeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("kokoro synthesize", "voice", opts.Voice, "format", format, "text_length", len(text))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("kokoro speech failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}

	return &tts.SynthesizeResult{
		Audio:       audio,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close is a no-op; connections are pooled by the HTTP client.
func (c *Client) Close() error { return nil }

// drainAndClose lets the transport reuse the connection.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
