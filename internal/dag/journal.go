package dag

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// JournalEntry records one movement of a branch pointer.
type JournalEntry struct {
	Time   string `json:"time"`
	Branch string `json:"branch"`
	From   ID     `json:"from,omitempty"`
	To     ID     `json:"to,omitempty"`
	Action string `json:"action"`
}

// Journal is an append-only JSONL log of branch movements. Entries are never
// rewritten; a corrupt line is skipped on read.
type Journal struct {
	path string
}

// NewJournal returns a journal backed by the file at path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Append writes entries as one batch.
func (j *Journal) Append(entries ...JournalEntry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode journal entry: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := SafeAppend(j.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Entries returns every entry in the order it was written. If branch is
// non-empty only that branch's entries are returned.
func (j *Journal) Entries(branch string) ([]JournalEntry, error) {
	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var entries []JournalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e JournalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if branch != "" && e.Branch != branch {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
