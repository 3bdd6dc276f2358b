// Package status reports a document's sync state: per-actor progress
// relative to its own history, and how far behind a remote clock is.
package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mjurincic/peritext/internal/crdt"
)

// ActorStatus describes one actor's contribution to a document as seen
// locally.
type ActorStatus struct {
	Actor        crdt.ActorID
	ChangeCount  int
	HighestCount uint64
}

// SyncStatus is a document's full local status: its own actor ID, its
// current clock broken out per actor, and (if a remote clock was
// supplied) how many ops (per-actor counters) it is missing from each
// actor relative to that remote.
type SyncStatus struct {
	LocalActor crdt.ActorID
	Actors     []ActorStatus
	// MissingFromRemote maps actor -> count of counters (ops) the remote
	// clock has observed that the local clock has not. Nil if no remote
	// clock was compared.
	MissingFromRemote map[crdt.ActorID]uint64
}

// GetStatus builds a SyncStatus for a document given its local actor,
// its clock, and the full per-actor change counts.
func GetStatus(localActor crdt.ActorID, clock crdt.VectorClock, history map[crdt.ActorID][]crdt.Change) *SyncStatus {
	s := &SyncStatus{LocalActor: localActor}
	actors := make(map[crdt.ActorID]struct{})
	for a := range clock {
		actors[a] = struct{}{}
	}
	for a := range history {
		actors[a] = struct{}{}
	}

	for a := range actors {
		s.Actors = append(s.Actors, ActorStatus{
			Actor:        a,
			ChangeCount:  len(history[a]),
			HighestCount: clock.Get(a),
		})
	}
	sort.Slice(s.Actors, func(i, j int) bool { return s.Actors[i].Actor < s.Actors[j].Actor })
	return s
}

// CompareRemote fills in MissingFromRemote given the clock reported by a
// remote replica: for every actor the remote has observed further than
// the local clock, records the gap.
func (s *SyncStatus) CompareRemote(remoteClock crdt.VectorClock) {
	s.MissingFromRemote = make(map[crdt.ActorID]uint64)
	local := make(map[crdt.ActorID]uint64, len(s.Actors))
	for _, a := range s.Actors {
		local[a.Actor] = a.HighestCount
	}
	for actor, n := range remoteClock {
		if n > local[actor] {
			s.MissingFromRemote[actor] = n - local[actor]
		}
	}
}

// FormatStatus renders a SyncStatus for CLI display.
func FormatStatus(s *SyncStatus) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("actor %s\n\n", s.LocalActor))

	if len(s.Actors) == 0 {
		sb.WriteString("no changes recorded\n")
		return sb.String()
	}

	sb.WriteString("changes observed:\n")
	for _, a := range s.Actors {
		sb.WriteString(fmt.Sprintf("  %s: %d changes, up to counter %d\n", a.Actor, a.ChangeCount, a.HighestCount))
	}

	if len(s.MissingFromRemote) > 0 {
		sb.WriteString("\nbehind remote:\n")
		actors := make([]crdt.ActorID, 0, len(s.MissingFromRemote))
		for a := range s.MissingFromRemote {
			actors = append(actors, a)
		}
		sort.Slice(actors, func(i, j int) bool { return actors[i] < actors[j] })
		for _, a := range actors {
			sb.WriteString(fmt.Sprintf("  %s: missing %d ops\n", a, s.MissingFromRemote[a]))
		}
	} else if s.MissingFromRemote != nil {
		sb.WriteString("\nup to date with remote\n")
	}

	return sb.String()
}
