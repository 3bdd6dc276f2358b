// Package docstore manages the on-disk directory layout for a document
// (the .peritext directory) and the lifetime of its background
// compaction service.
package docstore

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/mjurincic/peritext/internal/changelog"
)

// Dir is the directory name holding a document's on-disk state.
const Dir = ".peritext"

var (
	compactionService *changelog.CompactionService
	serviceMutex      sync.Mutex
)

// Init creates the .peritext folder structure at path and starts its
// background compaction service.
func Init(path string) error {
	serviceMutex.Lock()
	defer serviceMutex.Unlock()

	docPath := filepath.Join(path, Dir)
	if _, err := os.Stat(docPath); err == nil {
		return errors.New("a document already exists here")
	}

	dirs := []string{
		docPath,
		filepath.Join(docPath, "changes"),
		filepath.Join(docPath, "config"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}

	cs := changelog.NewCompactionService(path, nil)
	cs.Start()
	compactionService = cs

	return nil
}

// Cleanup stops the background compaction service, if one is running.
func Cleanup() {
	serviceMutex.Lock()
	defer serviceMutex.Unlock()

	if compactionService != nil {
		compactionService.Stop()
		compactionService = nil
	}
}

// FindRoot searches for a .peritext directory walking up from start.
func FindRoot(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(cur, Dir)); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", os.ErrNotExist
		}
		cur = parent
	}
}
