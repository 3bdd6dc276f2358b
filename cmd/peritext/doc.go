package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mjurincic/peritext/internal/changelog"
	"github.com/mjurincic/peritext/internal/config"
	"github.com/mjurincic/peritext/internal/crdt"
	"github.com/mjurincic/peritext/internal/docstore"
	"github.com/mjurincic/peritext/internal/document"
	"github.com/mjurincic/peritext/internal/signing"
)

// localActorID returns this replica's actor ID, persisting a freshly
// generated one to the repo config on first use.
func localActorID(root string) (crdt.ActorID, error) {
	id, err := config.GetValue(root, config.KeyActorID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return crdt.ActorID(id), nil
	}
	id = uuid.NewString()
	if err := config.SetRepoValue(root, config.KeyActorID, id); err != nil {
		return "", err
	}
	return crdt.ActorID(id), nil
}

// openDocument locates the document root, opens its change store, and
// replays every persisted change into a fresh in-memory Document.
func openDocument() (*document.Document, *changelog.Store, string, error) {
	root, err := docstore.FindRoot(".")
	if err != nil {
		return nil, nil, "", fmt.Errorf("not a peritext document (run `peritext init` first): %w", err)
	}
	return openDocumentAt(root)
}

// openDocumentAt is openDocument for an already-resolved document root.
func openDocumentAt(root string) (*document.Document, *changelog.Store, string, error) {
	actor, err := localActorID(root)
	if err != nil {
		return nil, nil, "", err
	}

	store, err := changelog.Open(root)
	if err != nil {
		return nil, nil, "", err
	}

	history, err := store.All()
	if err != nil {
		return nil, nil, "", err
	}

	doc := document.New(actor)
	pending := flattenHistory(history)
	if err := changelog.ApplyWithRetry(pending, doc.ApplyChange, 10000); err != nil {
		return nil, nil, "", err
	}

	return doc, store, root, nil
}

func flattenHistory(history map[crdt.ActorID][]crdt.Change) []crdt.Change {
	var out []crdt.Change
	for _, changes := range history {
		out = append(out, changes...)
	}
	return out
}

// persistChange signs c if a signing key exists for root, then appends
// it to the store. An absent key is not an error: signing is optional,
// enabled by running `peritext keygen` once per document.
func persistChange(store *changelog.Store, root string, c crdt.Change) error {
	if _, err := signing.LoadKeyPair(root); err == nil {
		if err := signing.Sign(root, &c); err != nil {
			return err
		}
	}
	return store.Append(c)
}
