package changelog

import (
	"path/filepath"
	"testing"
)

func TestCompactFilePreservesEveryRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")

	for i := uint64(1); i <= 5; i++ {
		if err := AppendChange(path, sampleChange("a", i)); err != nil {
			t.Fatal(err)
		}
	}

	if err := compactFile(path); err != nil {
		t.Fatal(err)
	}

	changes, err := LoadAllChanges(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 5 {
		t.Fatalf("expected all 5 records preserved after compaction, got %d", len(changes))
	}
	for i, c := range changes {
		if c.Seq != uint64(i+1) {
			t.Fatalf("expected record order preserved, got seq %d at index %d", c.Seq, i)
		}
	}
}

func TestCompactAllSkipsFilesBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Append(sampleChange("a", 1)); err != nil {
		t.Fatal(err)
	}

	cfg := CompactionConfig{MinBytesToCompact: 1 << 30}
	svc := NewCompactionService(dir, &cfg)
	if err := svc.CompactAll(); err != nil {
		t.Fatal(err)
	}

	changes, err := store.ChangesFor("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected the single record to survive untouched, got %d", len(changes))
	}
}

func TestCompactionServiceStartStop(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultCompactionConfig()
	svc := NewCompactionService(dir, &cfg)
	svc.Start()
	svc.Stop()
}
