package changelog

import (
	"testing"

	"github.com/mjurincic/peritext/internal/crdt"
)

func TestStoreAppendAndAll(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Append(sampleChange("a", 1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(sampleChange("a", 2)); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(sampleChange("b", 1)); err != nil {
		t.Fatal(err)
	}

	actors, err := store.Actors()
	if err != nil {
		t.Fatal(err)
	}
	if len(actors) != 2 || actors[0] != "a" || actors[1] != "b" {
		t.Fatalf("expected [a b], got %v", actors)
	}

	all, err := store.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all["a"]) != 2 {
		t.Fatalf("expected 2 changes for actor a, got %d", len(all["a"]))
	}
	if len(all["b"]) != 1 {
		t.Fatalf("expected 1 change for actor b, got %d", len(all["b"]))
	}
}

func TestStoreChangesForUnknownActorIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	changes, err := store.ChangesFor(crdt.ActorID("ghost"))
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no changes, got %d", len(changes))
	}
}
