// Package sample generates one audio sample per voice and keeps them on disk.
//
// A run lists nothing itself: it receives the voice set, skips voices whose
// sample already exists, synthesizes the rest through a bounded worker pool
// and reports one Result per voice.
package sample

import "time"

// Status is the terminal outcome of one voice.
type Status string

const (
	// StatusGenerated means the sample was synthesized and written.
	StatusGenerated Status = "generated"

	// StatusSkipped means a non-empty sample already existed.
	StatusSkipped Status = "skipped"

	// StatusFailed means synthesis or the write failed. No file is left behind.
	StatusFailed Status = "failed"
)

// Request is the fixed part of every synthesis call in a run.
type Request struct {
	Text   string
	Format string
	Speed  float64
}

// Result is the outcome for a single voice. Only the fields relevant to
// Status are set: Size for generated, Err for failed.
type Result struct {
	Voice  string
	Status Status
	Path   string
	Size   int
	Err    error
}

// Generated builds a successful result.
func Generated(voice, path string, size int) Result {
	return Result{Voice: voice, Status: StatusGenerated, Path: path, Size: size}
}

// Skipped builds a result for a sample that was already on disk.
func Skipped(voice, path string) Result {
	return Result{Voice: voice, Status: StatusSkipped, Path: path}
}

// Failed builds a result carrying the failure.
func Failed(voice string, err error) Result {
	return Result{Voice: voice, Status: StatusFailed, Err: err}
}

// SizeKB is the sample size in kilobytes.
func (r Result) SizeKB() float64 {
	return float64(r.Size) / 1024
}

// Summary tallies the results of a run.
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Total is the number of voices accounted for.
func (s Summary) Total() int {
	return s.Generated + s.Skipped + s.Failed
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case StatusGenerated:
		s.Generated++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
