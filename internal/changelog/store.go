package changelog

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mjurincic/peritext/internal/crdt"
)

// Store is the on-disk append-only history of changes for one document,
// one binary log file per actor under <docPath>/.peritext/changes/. The
// document's full state is always reconstructible by replaying every
// actor's log in causal order (see internal/document).
type Store struct {
	mu      sync.Mutex
	docPath string
}

// Open returns a Store rooted at docPath, creating its directory layout
// if necessary.
func Open(docPath string) (*Store, error) {
	dir := changesDir(docPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{docPath: docPath}, nil
}

func changesDir(docPath string) string {
	return filepath.Join(docPath, ".peritext", "changes")
}

func actorLogPath(docPath string, actor crdt.ActorID) string {
	return filepath.Join(changesDir(docPath), string(actor)+".log")
}

// Append records c to its actor's log.
func (s *Store) Append(c crdt.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AppendChange(actorLogPath(s.docPath, c.Actor), c)
}

// Actors lists every actor with a persisted log, sorted for determinism.
func (s *Store) Actors() ([]crdt.ActorID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(changesDir(s.docPath))
	if err != nil {
		return nil, err
	}
	var out []crdt.ActorID
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const suffix = ".log"
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			out = append(out, crdt.ActorID(name[:len(name)-len(suffix)]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ChangesFor returns every change recorded for actor, in log order.
func (s *Store) ChangesFor(actor crdt.ActorID) ([]crdt.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadAllChanges(actorLogPath(s.docPath, actor))
}

// All returns every persisted change across every actor, grouped by
// actor in a map keyed by ActorID, each value in log order.
func (s *Store) All() (map[crdt.ActorID][]crdt.Change, error) {
	actors, err := s.Actors()
	if err != nil {
		return nil, err
	}
	out := make(map[crdt.ActorID][]crdt.Change, len(actors))
	for _, a := range actors {
		changes, err := s.ChangesFor(a)
		if err != nil {
			return nil, err
		}
		out[a] = changes
	}
	return out, nil
}
