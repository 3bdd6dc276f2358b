package crdt

// VectorClock maps each actor to the highest counter observed from that
// actor. clock[a] == n means every operation (1..=n, a) has been applied.
// Iteration order over a VectorClock is never observable.
type VectorClock map[ActorID]uint64

// NewVectorClock returns an empty clock.
func NewVectorClock() VectorClock {
	return make(VectorClock)
}

// Clone returns an independent copy of the clock.
func (c VectorClock) Clone() VectorClock {
	out := make(VectorClock, len(c))
	for actor, n := range c {
		out[actor] = n
	}
	return out
}

// Get returns the high-water mark for actor, or 0 if unobserved.
func (c VectorClock) Get(actor ActorID) uint64 {
	return c[actor]
}

// Advance raises clock[actor] to n if n is greater than the current value.
// Clocks are monotonically non-decreasing; Advance never lowers a value.
func (c VectorClock) Advance(actor ActorID, n uint64) {
	if n > c[actor] {
		c[actor] = n
	}
}

// Observed reports whether id has already been applied according to this
// clock.
func (c VectorClock) Observed(id OpID) bool {
	if id.IsHead() {
		return true
	}
	return id.Counter <= c[id.Actor]
}

// Satisfies reports whether every dependency in deps is already observed
// by this clock. A Change whose deps do not satisfy this check must be
// deferred (MissingDependency).
func (c VectorClock) Satisfies(deps VectorClock) bool {
	for actor, n := range deps {
		if c[actor] < n {
			return false
		}
	}
	return true
}

// Equal reports whether two clocks observe exactly the same operations.
func (c VectorClock) Equal(other VectorClock) bool {
	// A clock with an explicit 0 entry is equivalent to one with the entry
	// absent, so compare by the union of keys rather than by length.
	seen := make(map[ActorID]struct{}, len(c)+len(other))
	for a := range c {
		seen[a] = struct{}{}
	}
	for a := range other {
		seen[a] = struct{}{}
	}
	for a := range seen {
		if c[a] != other[a] {
			return false
		}
	}
	return true
}
