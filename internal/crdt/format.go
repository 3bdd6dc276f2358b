package crdt

import "sort"

// MarkValue is a mark type together with its parameter, if any:
// "strong"/"em" are bare; "link" carries a URL, "comment" carries a
// comment ID.
type MarkValue struct {
	Type  MarkType
	Param string
}

func (m MarkValue) String() string {
	if m.Param == "" {
		return string(m.Type)
	}
	return string(m.Type) + "@" + m.Param
}

// MarkSet is the set of MarkValues active at a position. Comment marks
// are multi-valued (many comments may coexist); link and the bare marks
// are single-valued per their addMark/removeMark semantics.
type MarkSet map[MarkValue]struct{}

// NewMarkSet returns an empty mark set.
func NewMarkSet() MarkSet {
	return make(MarkSet)
}

// Clone returns an independent copy of the set.
func (s MarkSet) Clone() MarkSet {
	out := make(MarkSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Add inserts v into the set, returning a (possibly new) set with v
// present. Sets are treated as immutable values by the format engine, so
// callers should use the returned set.
func (s MarkSet) Add(v MarkValue) MarkSet {
	out := s.Clone()
	out[v] = struct{}{}
	return out
}

// Remove deletes v from the set.
func (s MarkSet) Remove(v MarkValue) MarkSet {
	out := s.Clone()
	delete(out, v)
	return out
}

// RemoveType deletes every value of the given mark type (used when
// addMark/removeMark "link" replaces or clears whichever URL is set,
// since at most one link value may be active per position).
func (s MarkSet) RemoveType(t MarkType) MarkSet {
	out := s.Clone()
	for v := range out {
		if v.Type == t {
			delete(out, v)
		}
	}
	return out
}

// Equal reports whether two sets contain exactly the same values.
func (s MarkSet) Equal(other MarkSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the set's values in a deterministic order, for display
// or for stable comparisons in tests.
func (s MarkSet) Sorted() []MarkValue {
	out := make([]MarkValue, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// FormatSpan is a maximal run of positions bearing a single mark set.
type FormatSpan struct {
	Start int
	Marks MarkSet
}

// MaterializedOp is a ResolvedOp with its anchors re-evaluated into
// current integer positions, ready to feed to ReplayOps.
type MaterializedOp struct {
	Action   Action
	MarkType MarkType
	Attrs    *Attrs
	Start    int
	End      int
}

// ReplayOps folds a log of materialized mark ops into a normalized
// FormatSpan list covering [0, length). Ops are applied strictly in log
// order: later ops win on every position they touch, so non-commutative
// overlaps (e.g. bold, unbold, re-bold a sub-range) resolve
// deterministically regardless of which replica computes them, so long
// as both replicas agree on log order (see ResolvedOpLog). The result
// already satisfies Normalize's invariants for this same length, so
// ReplayOps(ops, L) == Normalize(ReplayOps(ops, L), L) always holds;
// callers need not re-normalize.
func ReplayOps(ops []MaterializedOp, length int) []FormatSpan {
	spans := []FormatSpan{{Start: 0, Marks: NewMarkSet()}}
	for _, op := range ops {
		spans = applyToSpans(spans, op)
	}
	return Normalize(spans, length)
}

// applyToSpans applies a single materialized op to the span list,
// splitting at its boundaries first so every touched span aligns exactly
// with [start, end].
func applyToSpans(spans []FormatSpan, op MaterializedOp) []FormatSpan {
	if op.End < op.Start {
		return spans
	}
	spans = ensureBoundary(spans, op.Start)
	spans = ensureBoundary(spans, op.End+1)

	startIdx, _, _ := getSpanIndexAtOrBefore(spans, op.Start)
	endIdx, _, _ := getSpanIndexAtOrBefore(spans, op.End+1)

	for i := startIdx; i < endIdx; i++ {
		spans[i].Marks = applyMarkChange(spans[i].Marks, op)
	}
	return spans
}

// applyMarkChange computes the new mark set at a position touched by op.
func applyMarkChange(marks MarkSet, op MaterializedOp) MarkSet {
	switch op.Action {
	case ActionAddMark:
		switch op.MarkType {
		case MarkLink:
			url := ""
			if op.Attrs != nil {
				url = op.Attrs.URL
			}
			return marks.RemoveType(MarkLink).Add(MarkValue{Type: MarkLink, Param: url})
		case MarkComment:
			id := ""
			if op.Attrs != nil {
				id = op.Attrs.ID
			}
			return marks.Add(MarkValue{Type: MarkComment, Param: id})
		default:
			return marks.Add(MarkValue{Type: op.MarkType})
		}
	case ActionRemoveMark:
		switch op.MarkType {
		case MarkLink:
			return marks.RemoveType(MarkLink)
		case MarkComment:
			id := ""
			if op.Attrs != nil {
				id = op.Attrs.ID
			}
			return marks.Remove(MarkValue{Type: MarkComment, Param: id})
		default:
			return marks.Remove(MarkValue{Type: op.MarkType})
		}
	default:
		return marks
	}
}

// ensureBoundary splits the span covering pos so a boundary exists
// exactly at pos, inheriting marks from the span being split. A no-op if
// the boundary already exists, or if pos precedes every span (nothing to
// split); a pos past every span's start splits the last span.
func ensureBoundary(spans []FormatSpan, pos int) []FormatSpan {
	idx, span, ok := getSpanIndexAtOrBefore(spans, pos)
	if !ok || span.Start == pos {
		return spans
	}
	newSpan := FormatSpan{Start: pos, Marks: span.Marks.Clone()}
	spans = append(spans, FormatSpan{})
	copy(spans[idx+2:], spans[idx+1:])
	spans[idx+1] = newSpan
	return spans
}

// getSpanIndexAtOrBefore is the internal counterpart of
// GetSpanAtPosition, also returning the span's index.
func getSpanIndexAtOrBefore(spans []FormatSpan, pos int) (int, FormatSpan, bool) {
	if len(spans) == 0 || pos < spans[0].Start {
		return -1, FormatSpan{}, false
	}
	// rightmost span with span.Start <= pos
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].Start > pos
	})
	idx := i - 1
	return idx, spans[idx], true
}

// GetSpanAtPosition returns the rightmost span with span.Start <= pos,
// via binary search, along with its index. ok is false if spans is empty
// or pos precedes every span.
func GetSpanAtPosition(spans []FormatSpan, pos int) (span FormatSpan, index int, ok bool) {
	idx, s, found := getSpanIndexAtOrBefore(spans, pos)
	if !found {
		return FormatSpan{}, -1, false
	}
	return s, idx, true
}

// Normalize enforces the FormatSpan invariants on a list already sorted
// by Start (it does not reorder): the first span at start 0, no two
// adjacent spans sharing a mark set, and nothing at or past length.
func Normalize(spans []FormatSpan, length int) []FormatSpan {
	out := make([]FormatSpan, 0, len(spans))
	for _, s := range spans {
		if s.Start >= length {
			continue
		}
		out = append(out, s)
	}
	out = collapseAdjacent(out)
	if len(out) == 0 || out[0].Start != 0 {
		out = append([]FormatSpan{{Start: 0, Marks: NewMarkSet()}}, out...)
	}
	return out
}

func collapseAdjacent(spans []FormatSpan) []FormatSpan {
	if len(spans) == 0 {
		return spans
	}
	out := make([]FormatSpan, 0, len(spans))
	out = append(out, spans[0])
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if last.Marks.Equal(s.Marks) {
			continue
		}
		out = append(out, s)
	}
	return out
}
