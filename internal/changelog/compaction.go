package changelog

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CompactionConfig tunes the background compaction service.
type CompactionConfig struct {
	// MinBytesToCompact is the log file size, in bytes, above which a
	// rewrite pass is worth its I/O cost.
	MinBytesToCompact int64
	// Interval is how often the service sweeps every actor log.
	Interval time.Duration
}

// DefaultCompactionConfig returns sensible defaults.
func DefaultCompactionConfig() CompactionConfig {
	return CompactionConfig{
		MinBytesToCompact: 1 << 20, // 1 MiB
		Interval:          10 * time.Minute,
	}
}

// CompactionService periodically rewrites each actor's on-disk log to
// drop any trailing partial record left by an interrupted write, and to
// defragment the file layout. It never removes a complete change record:
// unlike tombstone garbage collection, the full change history must
// remain reconstructible, so compaction here is purely a storage-layout
// optimization, not a data-retention policy.
type CompactionService struct {
	docPath string
	config  CompactionConfig

	mu   sync.Mutex
	done chan struct{}
}

// NewCompactionService creates a compaction service for the document at
// docPath. A nil config applies DefaultCompactionConfig.
func NewCompactionService(docPath string, config *CompactionConfig) *CompactionService {
	cfg := DefaultCompactionConfig()
	if config != nil {
		cfg = *config
	}
	return &CompactionService{
		docPath: docPath,
		config:  cfg,
		done:    make(chan struct{}),
	}
}

// Start launches the periodic compaction sweep in the background.
func (s *CompactionService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticker := time.NewTicker(s.config.Interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				_ = s.CompactAll()
			case <-s.done:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the background sweep.
func (s *CompactionService) Stop() {
	close(s.done)
}

// CompactAll sweeps every actor log under the document's changes
// directory, compacting each that exceeds MinBytesToCompact.
func (s *CompactionService) CompactAll() error {
	dir := changesDir(s.docPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.Size() < s.config.MinBytesToCompact {
			continue
		}
		if err := compactFile(path); err != nil {
			continue
		}
	}
	return nil
}

// compactFile rewrites path to contain exactly the complete, parseable
// records it currently holds, via a temp file and atomic rename so a
// crash mid-compaction never corrupts the original.
func compactFile(path string) error {
	changes, err := LoadAllChanges(path)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	for _, c := range changes {
		if err := WriteChange(f, c); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
