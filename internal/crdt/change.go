package crdt

// Change is a causally-atomic unit of work produced by one actor. All
// ops inside it are assigned consecutive counters starting at
// StartCounter, and a receiver may apply it only once every dependency
// in Deps has already been applied.
type Change struct {
	Actor        ActorID     `json:"actor"`
	StartCounter uint64      `json:"startCounter"`
	Seq          uint64      `json:"seq"`
	Deps         VectorClock `json:"deps"`
	Ops          []Op        `json:"ops"`

	// Signature is an optional hex-encoded Ed25519 signature over the
	// change (see internal/signing). Empty for unsigned changes.
	Signature string `json:"signature,omitempty"`
}

// LastCounter returns the highest per-actor counter consumed by this
// change, accounting for multi-character insert/delete ops. For a change
// with no ops, it returns StartCounter unchanged.
func (c *Change) LastCounter() uint64 {
	next := c.StartCounter
	for _, op := range c.Ops {
		next += op.CounterSpan()
	}
	if next == c.StartCounter {
		return c.StartCounter
	}
	return next - 1
}

// Clone returns a deep copy of the change: Deps, the Ops slice, and each
// op's own Values/DeleteTargets/Attrs are all independent of c's, so a
// change handed to one replica (or held in local history) can never be
// mutated through a clone held by another.
func (c *Change) Clone() Change {
	out := *c
	out.Deps = c.Deps.Clone()
	out.Ops = make([]Op, len(c.Ops))
	for i, op := range c.Ops {
		out.Ops[i] = op.Clone()
	}
	return out
}
