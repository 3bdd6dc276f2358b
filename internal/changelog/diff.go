package changelog

import (
	"github.com/mjurincic/peritext/internal/crdt"
)

// GetMissingChanges returns every change the target clock has not yet
// observed, drawn from source's full per-actor history: for each actor
// in source, if target has not observed any of that actor's changes,
// every one of the actor's changes is emitted; otherwise only those
// whose LastCounter exceeds target's high-water mark for that actor.
// Relies on each actor's changes being stored in counter order, which
// AppendChange preserves.
func GetMissingChanges(history map[crdt.ActorID][]crdt.Change, target crdt.VectorClock) []crdt.Change {
	var out []crdt.Change
	for actor, changes := range history {
		known := target.Get(actor)
		for _, c := range changes {
			if c.LastCounter() > known {
				out = append(out, c.Clone())
			}
		}
	}
	return out
}

// ApplyWithRetry applies each change in changes to apply, re-queueing any
// that fail with MissingDependency until either every change applies or
// no further progress is made in a full pass. It bounds the number of
// passes at maxAttempts; exceeding it reports NonConvergence, since
// ordinary causal catch-up always converges in at most len(changes)
// passes.
func ApplyWithRetry(changes []crdt.Change, apply func(crdt.Change) error, maxAttempts int) error {
	pending := append([]crdt.Change(nil), changes...)
	for attempt := 0; attempt < maxAttempts && len(pending) > 0; attempt++ {
		var deferred []crdt.Change
		progressed := false
		for _, c := range pending {
			if err := apply(c); err != nil {
				if _, ok := err.(*crdt.MissingDependencyError); ok {
					deferred = append(deferred, c)
					continue
				}
				return err
			}
			progressed = true
		}
		if !progressed && len(deferred) == len(pending) {
			break
		}
		pending = deferred
	}
	if len(pending) > 0 {
		return &crdt.NonConvergenceError{Attempts: maxAttempts}
	}
	return nil
}
