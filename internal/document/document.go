// Package document implements the facade that ties the sequence CRDT and
// the resolved mark-op log together into a single replica: local edits,
// remote change application, and formatted-text reads.
package document

import (
	"fmt"
	"sync"

	"github.com/mjurincic/peritext/internal/crdt"
)

// TextWithMarks is one run of text sharing a single mark set, as
// returned by GetTextWithFormatting.
type TextWithMarks struct {
	Text  string
	Marks crdt.MarkSet
}

// ChangeResult is returned by Change: the resolved, ready-to-transmit
// change record produced by the local edit.
type ChangeResult struct {
	Change crdt.Change
}

// Document is a single replica: a sequence CRDT holding the visible
// text, a resolved mark-op log, and the vector clock of everything it
// has applied so far. All methods run to completion synchronously;
// nothing here suspends or needs external locking from a single caller,
// though the facade guards its own state with a mutex so it is safe to
// share across goroutines (e.g. a CLI process and its background sync
// loop).
type Document struct {
	mu sync.Mutex

	actorID crdt.ActorID
	seq     *crdt.RGA
	marks   *crdt.ResolvedOpLog
	clock   crdt.VectorClock

	changeSeq uint64
	history   []crdt.Change
}

// New creates an empty document owned by actorID.
func New(actorID crdt.ActorID) *Document {
	return &Document{
		actorID: actorID,
		seq:     crdt.NewRGA(actorID),
		marks:   crdt.NewResolvedOpLog(),
		clock:   crdt.NewVectorClock(),
	}
}

// ActorID returns the replica's own actor identity.
func (d *Document) ActorID() crdt.ActorID {
	return d.actorID
}

// Change applies ops locally and returns the resolved change record
// ready to hand to a transport. The document reflects the edit
// immediately. Ops are validated and bounds-checked up front, each
// against the visible length the earlier ops of the batch leave behind,
// so a malformed or out-of-bounds op aborts before anything mutates.
func (d *Document) Change(ops []crdt.Op) (ChangeResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	length := d.seq.VisibleLength()
	for i := range ops {
		if err := ops[i].Validate(); err != nil {
			return ChangeResult{}, err
		}
		op, next, bad := ops[i], length, false
		switch op.Action {
		case crdt.ActionInsert:
			bad, next = op.Index < 0 || op.Index > length, length+len(op.Values)
		case crdt.ActionDelete:
			bad, next = op.Index < 0 || op.Count < 0 || op.Index+op.Count > length, length-op.Count
		default:
			bad = op.StartIndex > length || op.EndIndex < 0 || op.EndIndex >= length
		}
		if bad {
			return ChangeResult{}, &crdt.OutOfBoundsError{Index: op.Index, Count: op.Count, VisibleLength: length}
		}
		length = next
	}

	startCounter := d.clock.Get(d.actorID) + 1
	nextCounter := startCounter
	resolved := make([]crdt.Op, 0, len(ops))
	var pendingMarks []crdt.ResolvedOp

	for _, op := range ops {
		switch op.Action {
		case crdt.ActionInsert:
			rs, err := d.seq.LocalInsert(nextCounter, op.Index, op.Values)
			if err != nil {
				return ChangeResult{}, err
			}
			resolved = append(resolved, rs...)
			for _, o := range rs {
				nextCounter += o.CounterSpan()
			}
		case crdt.ActionDelete:
			rs, err := d.seq.LocalDelete(nextCounter, op.Index, op.Count)
			if err != nil {
				return ChangeResult{}, err
			}
			resolved = append(resolved, rs...)
			for _, o := range rs {
				nextCounter += o.CounterSpan()
			}
		case crdt.ActionAddMark, crdt.ActionRemoveMark:
			id := crdt.OpID{Counter: nextCounter, Actor: d.actorID}
			wireOp, ro, err := crdt.ResolveMarkOp(d.seq, op, id)
			if err != nil {
				return ChangeResult{}, err
			}
			resolved = append(resolved, wireOp)
			pendingMarks = append(pendingMarks, ro)
			nextCounter++
		default:
			return ChangeResult{}, &crdt.MalformedOpError{Reason: "unknown action " + string(op.Action)}
		}
	}

	for _, ro := range pendingMarks {
		d.marks.Add(ro)
	}

	d.changeSeq++
	change := crdt.Change{
		Actor:        d.actorID,
		StartCounter: startCounter,
		Seq:          d.changeSeq,
		Deps:         d.clock.Clone(),
		Ops:          resolved,
	}
	last := nextCounter - 1
	if len(resolved) == 0 {
		last = d.clock.Get(d.actorID)
	}
	d.clock.Advance(d.actorID, last)
	d.history = append(d.history, change.Clone())

	return ChangeResult{Change: change.Clone()}, nil
}

// ApplyChange applies a remote change record. If the change's deps are
// not yet satisfied by the document's clock, it fails with
// MissingDependency and the caller should re-queue and retry once more
// changes have arrived; the document is left unmodified in that case.
// Applying the same change twice is a no-op the second time: a change
// whose last counter the clock already covers is skipped as a whole.
func (d *Document) ApplyChange(change crdt.Change) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := change.LastCounter()
	if len(change.Ops) > 0 && d.clock.Get(change.Actor) >= last {
		// Already fully observed: applying the same change twice must be
		// equivalent to applying it once, and re-running mark ops through
		// the resolved log would double them up even though insert/delete
		// are naturally idempotent by character ID.
		return nil
	}

	if !d.clock.Satisfies(change.Deps) {
		for actor, n := range change.Deps {
			if d.clock.Get(actor) < n {
				return &crdt.MissingDependencyError{Ref: crdt.OpID{Counter: n, Actor: actor}}
			}
		}
		return &crdt.MissingDependencyError{}
	}

	for _, op := range change.Ops {
		switch op.Action {
		case crdt.ActionInsert:
			if err := d.seq.ApplyInsert(op); err != nil {
				return err
			}
		case crdt.ActionDelete:
			if err := d.seq.ApplyDelete(op); err != nil {
				return err
			}
		case crdt.ActionAddMark, crdt.ActionRemoveMark:
			d.marks.Add(crdt.ResolvedOp{
				ID:          op.ID,
				Action:      op.Action,
				MarkType:    op.MarkType,
				Attrs:       op.Attrs,
				StartAnchor: op.StartAnchor,
				EndAnchor:   op.EndAnchor,
			})
		default:
			return &crdt.MalformedOpError{Reason: "unknown action " + string(op.Action)}
		}
	}

	d.clock.Advance(change.Actor, last)
	d.history = append(d.history, change.Clone())
	return nil
}

// Clock returns a copy of the document's current vector clock.
func (d *Document) Clock() crdt.VectorClock {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock.Clone()
}

// History returns every change this replica has applied (locally
// produced or remotely received) in application order, for the change
// codec's diff primitive.
func (d *Document) History() []crdt.Change {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]crdt.Change, len(d.history))
	for i, c := range d.history {
		out[i] = c.Clone()
	}
	return out
}

// Text returns the visible document text as a single string.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb []byte
	for _, v := range d.seq.VisibleText() {
		sb = append(sb, v...)
	}
	return string(sb)
}

// Len returns the visible text length, for position arithmetic in
// callers (the "root.text" length query).
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq.VisibleLength()
}

// GetTextWithFormatting returns the visible text split into runs, each
// tagged with the mark set active across that run.
func (d *Document) GetTextWithFormatting() []TextWithMarks {
	d.mu.Lock()
	defer d.mu.Unlock()

	values := d.seq.VisibleText()
	length := len(values)
	materialized := d.marks.Materialize(d.seq)
	spans := crdt.ReplayOps(materialized, length)

	out := make([]TextWithMarks, 0, len(spans))
	for i, s := range spans {
		end := length
		if i+1 < len(spans) {
			end = spans[i+1].Start
		}
		if s.Start >= end {
			continue
		}
		var text []byte
		for _, v := range values[s.Start:end] {
			text = append(text, v...)
		}
		out = append(out, TextWithMarks{Text: string(text), Marks: s.Marks})
	}
	return out
}

// String renders the document for debugging/CLI display: the raw text
// followed by a compact description of each format run.
func (d *Document) String() string {
	runs := d.GetTextWithFormatting()
	out := d.Text() + "\n"
	for _, r := range runs {
		marks := r.Marks.Sorted()
		if len(marks) == 0 {
			continue
		}
		out += fmt.Sprintf("  %q:", r.Text)
		for _, m := range marks {
			out += " " + m.String()
		}
		out += "\n"
	}
	return out
}
