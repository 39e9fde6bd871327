// Package history keeps an append-only journal of analysis runs as NDJSON
// (newline-delimited JSON). One line per run; the journal is advisory, so
// append failures never abort an analysis.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Filename is the journal file name inside the doclens data directory.
const Filename = "history.jsonl"

// Entry records one completed analysis run.
type Entry struct {
	ID         string        `json:"id"`
	Time       time.Time     `json:"time"`
	File       string        `json:"file"`
	Kind       string        `json:"kind"`
	Mode       string        `json:"mode"`
	Language   string        `json:"language"`
	Model      string        `json:"model,omitempty"`
	OutputPath string        `json:"output_path,omitempty"`
	Tokens     int32         `json:"tokens,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
}

// Store reads and writes the journal file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store rooted at dir. The journal file itself is created
// lazily on first append.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, Filename)}
}

// Path returns the journal file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes one entry to the end of the journal.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns everything. Lines that fail to parse are skipped; a journal
// damaged by a crash mid-write must not make history unreadable.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// Clear removes the journal file. Clearing an empty journal is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
