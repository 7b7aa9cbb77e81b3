package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Line prefixes recording the mode of each history entry.
const (
	prefixStmt = "S:"
	prefixCtrl = "C:"
)

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History manages input history with file persistence. A History with an
// empty path is kept in memory only.
type History struct {
	path    string
	limit   int
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a History persisted at path that retains at most limit
// entries (all of them if limit is not positive).
func NewHistory(path string, limit int) *History {
	return &History{path: path, limit: limit}
}

// Load reads history entries from the history file. A missing file is not
// an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := HistoryEntry{Line: line, Mode: modeStmt}

		if s, ok := strings.CutPrefix(line, prefixCtrl); ok {
			entry = HistoryEntry{Line: s, Mode: modeCtrl}
		} else if s, ok := strings.CutPrefix(line, prefixStmt); ok {
			entry.Line = s
		}

		h.entries = append(h.entries, entry)
	}

	h.trim()

	return scanner.Err()
}

// WriteWithMode appends a new entry to the history with the specified mode.
// An older entry with the same line and mode is removed.
func (h *History) WriteWithMode(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 {
		if last := h.entries[n-1]; last.Line == entry && last.Mode == mode {
			return len(entry), nil
		}
	}

	rewrite := false

	for i, e := range h.entries {
		if e.Line == entry && e.Mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			rewrite = true

			break
		}
	}

	h.entries = append(h.entries, HistoryEntry{Line: entry, Mode: mode})

	if h.trim() {
		rewrite = true
	}

	if h.path == "" {
		return len(entry), nil
	}

	if rewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(format(HistoryEntry{Line: entry, Mode: mode}))
}

// GetEntry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]HistoryEntry, len(h.entries))
	copy(result, h.entries)

	return result
}

// trim drops the oldest entries beyond the limit and reports whether any
// were dropped. Must be called with h.mu held.
func (h *History) trim() bool {
	if h.limit <= 0 || len(h.entries) <= h.limit {
		return false
	}

	h.entries = append([]HistoryEntry(nil), h.entries[len(h.entries)-h.limit:]...)

	return true
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	total := 0

	for _, entry := range h.entries {
		n, err := file.WriteString(format(entry))
		if err != nil {
			return total, err
		}

		total += n
	}

	return total, nil
}

func format(entry HistoryEntry) string {
	if entry.Mode == modeCtrl {
		return prefixCtrl + entry.Line + "\n"
	}

	return prefixStmt + entry.Line + "\n"
}
