package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/samplegen/internal/sample"
	"github.com/nadzzz/samplegen/internal/server"
)

func newTestServer(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()

	store := sample.NewStore(afero.NewMemMapFs(), "samples", "mp3")
	require.NoError(t, store.Ensure())
	_, err := store.Save("am_adam", []byte("ID3adam"))
	require.NoError(t, err)
	_, err = store.Save("af_bella", []byte("ID3bella!"))
	require.NoError(t, err)

	s := server.New(0, store)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	s, srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/healthz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.JSONEq(t, `{"status":"not_ready"}`, string(body))

	s.SetReady(true)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, body := get(t, srv.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.JSONEq(t, `{"status":"ok"}`, string(body))
	}
}

func TestListSamples(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/samples")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var list server.SampleList
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, []sample.Entry{
		{Voice: "af_bella", File: "af_bella.mp3", Size: 9},
		{Voice: "am_adam", File: "am_adam.mp3", Size: 7},
	}, list.Samples)
}

func TestListSamplesEmptyDir(t *testing.T) {
	store := sample.NewStore(afero.NewMemMapFs(), "nothing-yet", "mp3")
	srv := httptest.NewServer(server.New(0, store).Handler())
	defer srv.Close()

	resp, body := get(t, srv.URL+"/samples")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"samples":[]}`, string(body))
}

func TestGetSample(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/samples/af_bella.mp3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	require.Equal(t, "ID3bella!", string(body))
}

func TestGetSampleErrors(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		path string
		want int
	}{
		{path: "/samples/missing.mp3", want: http.StatusNotFound},
		{path: "/samples/af_bella.wav", want: http.StatusBadRequest},
		{path: "/samples/.af_bella.mp3", want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		resp, _ := get(t, srv.URL+tc.path)
		require.Equal(t, tc.want, resp.StatusCode, tc.path)
	}
}

func TestSwaggerDoc(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/swagger/doc.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, paths, "/samples")
	require.Contains(t, paths, "/samples/{file}")
}
