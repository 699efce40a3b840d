package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Identity derives the persistence key for a source file from its absolute
// path, base name, and content. Moving or editing the file therefore makes
// older saved preferences stale, which Cleanup detects.
func Identity(path string, content []byte) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	h := md5.New()
	io.WriteString(h, abs)
	io.WriteString(h, filepath.Base(abs))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is one saved preference file: source metadata for listing plus the
// per-set preferences themselves.
type Entry struct {
	FilePath  string                `json:"file_path"`
	FileName  string                `json:"file_name"`
	CreatedAt time.Time             `json:"created_at"`
	Prefs     map[string]Preference `json:"config"`
}

// Saved pairs an Entry with the identity it is stored under.
type Saved struct {
	Identity string
	Entry
}

// Store persists view preferences keyed by source-file identity. The
// pipeline only needs get and set semantics; listing and cleanup serve the
// configs subcommand.
type Store interface {
	Get(identity string) (map[string]Preference, bool, error)
	Set(identity string, entry Entry) error
	Delete(identity string) error
	List() ([]Saved, error)
}

// FileStore keeps one JSON file per identity under a directory.
type FileStore struct {
	Dir string
}

// DefaultStoreDir returns the per-user preference directory,
// ~/.vsr/rep_saved.
func DefaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".vsr", "rep_saved"), nil
}

// NewFileStore returns a store rooted at dir. The directory is created
// lazily on the first Set.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) entryPath(identity string) string {
	return filepath.Join(s.Dir, identity+".json")
}

// Get loads the preferences saved under identity. A missing file is not an
// error; the second return value reports whether anything was found.
func (s *FileStore) Get(identity string) (map[string]Preference, bool, error) {
	data, err := os.ReadFile(s.entryPath(identity))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read preferences: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to parse preferences %s: %w", identity, err)
	}
	prefs := make(map[string]Preference, len(entry.Prefs))
	for name, p := range entry.Prefs {
		prefs[name] = p.Normalize()
	}
	return prefs, true, nil
}

// Set writes entry under identity, creating the store directory if needed.
func (s *FileStore) Set(identity string, entry Entry) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preference directory %s: %w", s.Dir, err)
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(s.entryPath(identity), data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Delete removes the entry for identity. Deleting a missing entry is a
// no-op.
func (s *FileStore) Delete(identity string) error {
	err := os.Remove(s.entryPath(identity))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete preferences %s: %w", identity, err)
	}
	return nil
}

// List returns every saved entry, newest first. Unreadable files are
// skipped rather than failing the whole listing.
func (s *FileStore) List() ([]Saved, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preference directory %s: %w", s.Dir, err)
	}

	var saved []Saved
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		saved = append(saved, Saved{
			Identity: strings.TrimSuffix(name, ".json"),
			Entry:    entry,
		})
	}
	sort.Slice(saved, func(i, j int) bool {
		return saved[i].CreatedAt.After(saved[j].CreatedAt)
	})
	return saved, nil
}

// Cleanup removes entries whose source file no longer exists or whose
// content changed since the preferences were saved. It returns how many
// entries were removed.
func (s *FileStore) Cleanup() (int, error) {
	saved, err := s.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range saved {
		content, err := os.ReadFile(entry.FilePath)
		if err == nil && Identity(entry.FilePath, content) == entry.Identity {
			continue
		}
		if err := s.Delete(entry.Identity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
