package sample

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidName is returned by Open for names that are not a plain sample file name.
var ErrInvalidName = errors.New("invalid sample name")

// Store keeps one file per voice, named <voice>.<ext>, in a single directory.
// The existence of a non-empty file is the only state it tracks.
type Store struct {
	fs  afero.Fs
	dir string
	ext string
}

// Entry describes a sample that is on disk.
type Entry struct {
	Voice string `json:"voice"`
	File  string `json:"file"`
	Size  int64  `json:"size"`
}

// NewStore creates a store rooted at dir. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs, dir, ext string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}
	return &Store{fs: fs, dir: dir, ext: ext}
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// Ext returns the file extension without the leading dot.
func (s *Store) Ext() string { return s.ext }

// Ensure creates the output directory and any missing parents.
func (s *Store) Ensure() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", s.dir, err)
	}
	return nil
}

// Path returns where the sample for voice is stored.
func (s *Store) Path(voice string) string {
	return filepath.Join(s.dir, voice+"."+s.ext)
}

// Exists reports whether a non-empty sample for voice is on disk.
func (s *Store) Exists(voice string) bool {
	info, err := s.fs.Stat(s.Path(voice))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Save writes data as the sample for voice. The bytes go to a temporary
// file first and are renamed into place, so the final path never holds a
// partial sample.
func (s *Store) Save(voice string, data []byte) (string, error) {
	path := s.Path(voice)

	tmp, err := afero.TempFile(s.fs, s.dir, "."+voice+"-*.part")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", voice, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	if err := s.fs.Chmod(tmpName, 0o644); err != nil {
		slog.Debug("chmod sample failed", "path", tmpName, "error", err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("renaming into %s: %w", path, err)
	}
	return path, nil
}

// Clear removes every sample file in the directory and returns how many
// were removed. Removal is best effort: failures are logged and skipped.
func (s *Store) Clear() (int, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(s.dir, "*."+s.ext))
	if err != nil {
		return 0, fmt.Errorf("listing samples in %s: %w", s.dir, err)
	}

	removed := 0
	for _, path := range matches {
		if err := s.fs.Remove(path); err != nil {
			slog.Warn("could not remove sample", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// List returns the samples currently on disk, sorted by voice.
func (s *Store) List() ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}

	suffix := "." + s.ext
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if !info.Mode().IsRegular() || !strings.HasSuffix(name, suffix) || strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, Entry{
			Voice: strings.TrimSuffix(name, suffix),
			File:  name,
			Size:  info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Voice < entries[j].Voice })
	return entries, nil
}

// Open opens the named sample file for reading. name must be a bare file
// name with the store's extension.
func (s *Store) Open(name string) (afero.File, os.FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, "."+s.ext) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	f, err := s.fs.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, os.ErrNotExist
	}
	return f, info, nil
}
