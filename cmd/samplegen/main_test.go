package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nadzzz/samplegen/internal/tts"
)

type fakeKokoro struct {
	voices   []string
	speeches atomic.Int32
}

func (f *fakeKokoro) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v1/audio/voices":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"voices": f.voices})
	case "/v1/audio/speech":
		f.speeches.Add(1)
		var req struct {
			Voice string `json:"voice"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3" + req.Voice))
	default:
		http.NotFound(w, r)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateWritesSamples(t *testing.T) {
	kokoro := &fakeKokoro{voices: []string{"af_bella", "am_adam"}}
	srv := httptest.NewServer(kokoro)
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "web", "voice_samples")

	out, err := run(t, "--api-url", srv.URL, "--batch-size", "2", "--output-dir", dir)
	require.NoError(t, err)
	require.EqualValues(t, 2, kokoro.speeches.Load())

	for _, v := range kokoro.voices {
		data, err := os.ReadFile(filepath.Join(dir, v+".mp3"))
		require.NoError(t, err)
		require.Equal(t, "ID3"+v, string(data))
	}

	require.Contains(t, out, "Found 2 voices")
	require.Contains(t, out, "Generated: 2")
	require.Contains(t, out, "Skipped:   0")
	require.Contains(t, out, "Errors:    0")
	require.Contains(t, out, "Total:     2")
}

func TestGenerateSkipsExisting(t *testing.T) {
	kokoro := &fakeKokoro{voices: []string{"af_bella", "am_adam"}}
	srv := httptest.NewServer(kokoro)
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "af_bella.mp3"), make([]byte, 12*1024), 0o644))

	out, err := run(t, "--api-url", srv.URL, "--batch-size", "2", "--output-dir", dir)
	require.NoError(t, err)
	require.EqualValues(t, 1, kokoro.speeches.Load())
	require.Contains(t, out, "af_bella - skipped (exists)")
	require.Contains(t, out, "Generated: 1")
	require.Contains(t, out, "Skipped:   1")
}

func TestGenerateForce(t *testing.T) {
	kokoro := &fakeKokoro{voices: []string{"af_bella"}}
	srv := httptest.NewServer(kokoro)
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "af_bella.mp3"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gone.mp3"), []byte("old"), 0o644))

	out, err := run(t, "--api-url", srv.URL, "--output-dir", dir, "--force")
	require.NoError(t, err)
	require.EqualValues(t, 1, kokoro.speeches.Load())
	require.Contains(t, out, "--force")

	data, err := os.ReadFile(filepath.Join(dir, "af_bella.mp3"))
	require.NoError(t, err)
	require.Equal(t, "ID3af_bella", string(data))
	require.NoFileExists(t, filepath.Join(dir, "gone.mp3"))
}

func TestGenerateUnreachable(t *testing.T) {
	var speeches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/audio/speech" {
			speeches.Add(1)
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out, err := run(t, "--api-url", srv.URL, "--output-dir", t.TempDir())
	require.ErrorIs(t, err, tts.ErrServiceUnreachable)
	require.Contains(t, out, "Could not connect to API at "+srv.URL)
	require.NotContains(t, out, "Done in")
	require.Zero(t, speeches.Load())
}

func TestGeneratePerVoiceFailureKeepsExitZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/audio/voices":
			_, _ = w.Write([]byte(`{"voices":["af_bella","broken"]}`))
		case "/v1/audio/speech":
			var req struct {
				Voice string `json:"voice"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Voice == "broken" {
				http.Error(w, "voice not found", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("ID3"))
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	out, err := run(t, "--api-url", srv.URL, "--output-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "broken - ERROR:")
	require.Contains(t, out, "Errors:    1")
	require.NoFileExists(t, filepath.Join(dir, "broken.mp3"))
	require.FileExists(t, filepath.Join(dir, "af_bella.mp3"))
}

func TestInvalidBatchSize(t *testing.T) {
	_, err := run(t, "--batch-size", "0", "--output-dir", t.TempDir())
	require.ErrorContains(t, err, "batch size")
}
