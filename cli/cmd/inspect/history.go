package inspect

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// entry is a single history line with the mode it was entered in.
type entry struct {
	Line string
	Mode inputMode
}

// history is the persistent input history. Each line in the file carries an
// "E:" (eval) or "C:" (command) mode prefix.
type history struct {
	path    string
	entries []entry
	mu      sync.RWMutex
}

func newHistory(path string) *history {
	return &history{path: path}
}

func (e entry) encode() string {
	if e.Mode == modeCtrl {
		return "C:" + e.Line + "\n"
	}

	return "E:" + e.Line + "\n"
}

func decode(line string) entry {
	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return entry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, "E:")

	return entry{Line: s, Mode: modeEval}
}

// load reads the history file. A missing file is an empty history.
func (h *history) load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decode(line))
		}
	}

	return scanner.Err()
}

// add records a line. An older identical entry is moved to the end.
func (h *history) add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e := entry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	before := len(h.entries)
	h.entries = slices.DeleteFunc(h.entries, func(x entry) bool { return x == e })
	h.entries = append(h.entries, e)

	if len(h.entries) <= before {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.encode())

	return err
}

// at returns the entry at index i, oldest first.
func (h *history) at(i int) (entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

func (h *history) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// rewrite replaces the history file. Must be called with h.mu held.
func (h *history) rewrite() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for _, e := range h.entries {
		if _, err := w.WriteString(e.encode()); err != nil {
			return err
		}
	}

	return w.Flush()
}
