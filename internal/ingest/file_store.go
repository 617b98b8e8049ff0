package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	maxCreateAttempts = 16
	maxNameCounter    = 1000
)

// FileStore writes each event to its own JSON file under Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates a new file-based store, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) Save(_ context.Context, event Event) error {
	var (
		file *os.File
		path string
		err  error
	)
	// O_EXCL so two events racing for the same name never overwrite each other
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		path, err = f.uniquePath(event)
		if err != nil {
			return err
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event.ID, err)
	}
	return nil
}

// uniquePath returns {timestamp}_{id8}_{level}.json, adding a counter suffix
// when a file with that name already exists.
func (f *FileStore) uniquePath(event Event) (string, error) {
	received := event.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}
	id8 := shortID(event.ID)
	if strings.ContainsAny(id8, `/\`) || strings.Contains(id8, "..") {
		return "", fmt.Errorf("invalid event id %q", event.ID)
	}
	base := fmt.Sprintf("%s_%s_%s", received.Format("2006-01-02_15-04-05.000"), id8, event.Level)

	for counter := 0; counter < maxNameCounter; counter++ {
		name := base
		if counter > 0 {
			name = fmt.Sprintf("%s_%d", base, counter)
		}
		path := filepath.Join(f.Dir, name+".json")
		if !fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s after %d attempts", base, maxNameCounter)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// fileExists only reports true when Stat succeeds; other errors surface from OpenFile.
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
