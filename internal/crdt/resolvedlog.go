package crdt

import "sort"

// ResolvedOp is a mark op (addMark/removeMark) with its start/end
// anchors resolved to character identities rather than raw indices, plus
// the OpID that totally orders it against every other resolved op.
type ResolvedOp struct {
	ID          OpID
	Action      Action
	MarkType    MarkType
	Attrs       *Attrs
	StartAnchor OpID
	EndAnchor   OpID
}

// ResolvedOpLog holds every mark op ever applied to a document, kept
// sorted by OpID. Replaying the log in this order is what gives every
// replica the same answer for overlapping, non-commutative mark changes:
// whichever op is "later" by (counter, actor) wins, independent of the
// order changes happened to arrive in.
type ResolvedOpLog struct {
	ops []ResolvedOp
}

// NewResolvedOpLog creates an empty log.
func NewResolvedOpLog() *ResolvedOpLog {
	return &ResolvedOpLog{}
}

// Add inserts op into the log at its sorted position. Re-adding an
// already-present ID (by value) is harmless but not deduplicated by this
// type; callers apply each Change's ops at most once (see Document).
func (l *ResolvedOpLog) Add(op ResolvedOp) {
	i := sort.Search(len(l.ops), func(i int) bool {
		return op.ID.Less(l.ops[i].ID)
	})
	l.ops = append(l.ops, ResolvedOp{})
	copy(l.ops[i+1:], l.ops[i:])
	l.ops[i] = op
}

// Len reports the number of ops in the log.
func (l *ResolvedOpLog) Len() int {
	return len(l.ops)
}

// Ops returns the log's ops in ascending OpID order. The returned slice
// is owned by the caller.
func (l *ResolvedOpLog) Ops() []ResolvedOp {
	out := make([]ResolvedOp, len(l.ops))
	copy(out, l.ops)
	return out
}

// Materialize re-evaluates every resolved op's anchors against seq's
// current state, producing the ordered list of MaterializedOps that
// ReplayOps folds into FormatSpans. An op whose anchor can no longer be
// resolved (this should not happen for a causally-complete document, but
// defensively) is skipped rather than allowed to corrupt the replay.
func (l *ResolvedOpLog) Materialize(seq *RGA) []MaterializedOp {
	out := make([]MaterializedOp, 0, len(l.ops))
	for _, op := range l.ops {
		start, ok := seq.OpIDToPosition(op.StartAnchor, true)
		if !ok {
			continue
		}
		end, ok := seq.OpIDToPosition(op.EndAnchor, false)
		if !ok {
			continue
		}
		if end < start {
			continue
		}
		out = append(out, MaterializedOp{
			Action:   op.Action,
			MarkType: op.MarkType,
			Attrs:    op.Attrs,
			Start:    start,
			End:      end,
		})
	}
	return out
}

// ResolveMarkOp turns an unresolved addMark/removeMark Op (raw
// start/end indices) into a ResolvedOp anchored against seq's current
// state, and into its wire form (with StartAnchor/EndAnchor/ID filled
// in) ready to record into a Change.
func ResolveMarkOp(seq *RGA, op Op, id OpID) (Op, ResolvedOp, error) {
	startAnchor, err := seq.PositionToOpID(op.StartIndex, true)
	if err != nil {
		return Op{}, ResolvedOp{}, err
	}
	endAnchor, err := seq.PositionToOpID(op.EndIndex, false)
	if err != nil {
		return Op{}, ResolvedOp{}, err
	}

	op.ID = id
	op.StartAnchor = startAnchor
	op.EndAnchor = endAnchor

	resolved := ResolvedOp{
		ID:          id,
		Action:      op.Action,
		MarkType:    op.MarkType,
		Attrs:       op.Attrs,
		StartAnchor: startAnchor,
		EndAnchor:   endAnchor,
	}
	return op, resolved, nil
}
