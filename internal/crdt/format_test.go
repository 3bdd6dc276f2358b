package crdt

import (
	"reflect"
	"testing"
)

func strongSpan(start int) FormatSpan {
	return FormatSpan{Start: start, Marks: NewMarkSet().Add(MarkValue{Type: MarkStrong})}
}

func emptySpan(start int) FormatSpan {
	return FormatSpan{Start: start, Marks: NewMarkSet()}
}

func spansEqual(t *testing.T, got, want []FormatSpan) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Start != want[i].Start || !got[i].Marks.Equal(want[i].Marks) {
			t.Fatalf("span %d: expected {%d %v}, got {%d %v}",
				i, want[i].Start, want[i].Marks.Sorted(), got[i].Start, got[i].Marks.Sorted())
		}
	}
}

func addStrong(start, end int) MaterializedOp {
	return MaterializedOp{Action: ActionAddMark, MarkType: MarkStrong, Start: start, End: end}
}

func removeStrong(start, end int) MaterializedOp {
	return MaterializedOp{Action: ActionRemoveMark, MarkType: MarkStrong, Start: start, End: end}
}

func TestReplayOpsScenarios(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := ReplayOps(nil, 20)
		spansEqual(t, got, []FormatSpan{emptySpan(0)})
	})

	t.Run("single add", func(t *testing.T) {
		got := ReplayOps([]MaterializedOp{addStrong(2, 9)}, 20)
		spansEqual(t, got, []FormatSpan{emptySpan(0), strongSpan(2), emptySpan(10)})
	})

	t.Run("bold, unbold, bold overlap", func(t *testing.T) {
		ops := []MaterializedOp{addStrong(2, 9), removeStrong(5, 13), addStrong(11, 16)}
		got := ReplayOps(ops, 20)
		spansEqual(t, got, []FormatSpan{
			emptySpan(0), strongSpan(2), emptySpan(5), strongSpan(11), emptySpan(17),
		})
	})

	t.Run("reordered: later unbold wins over earlier bold", func(t *testing.T) {
		ops := []MaterializedOp{addStrong(2, 9), addStrong(11, 16), removeStrong(5, 13)}
		got := ReplayOps(ops, 20)
		spansEqual(t, got, []FormatSpan{
			emptySpan(0), strongSpan(2), emptySpan(5), strongSpan(14), emptySpan(17),
		})
	})
}

func TestNormalize(t *testing.T) {
	strongEm := func(start int) FormatSpan {
		return FormatSpan{Start: start, Marks: NewMarkSet().Add(MarkValue{Type: MarkStrong}).Add(MarkValue{Type: MarkEm})}
	}
	em := func(start int) FormatSpan {
		return FormatSpan{Start: start, Marks: NewMarkSet().Add(MarkValue{Type: MarkEm})}
	}

	t.Run("compaction", func(t *testing.T) {
		spans := []FormatSpan{
			emptySpan(0), emptySpan(3), strongSpan(4), strongSpan(7), strongSpan(12),
			strongEm(14), em(16), em(18),
		}
		got := Normalize(spans, 1000)
		spansEqual(t, got, []FormatSpan{emptySpan(0), strongSpan(4), strongEm(14), em(16)})
	})

	t.Run("truncation", func(t *testing.T) {
		spans := []FormatSpan{emptySpan(0), emptySpan(3), strongSpan(4), strongSpan(7), emptySpan(10)}
		got := Normalize(spans, 10)
		spansEqual(t, got, []FormatSpan{emptySpan(0), strongSpan(4)})
	})

	t.Run("idempotent", func(t *testing.T) {
		spans := []FormatSpan{emptySpan(0), strongSpan(3), emptySpan(9)}
		once := Normalize(spans, 20)
		twice := Normalize(once, 20)
		spansEqual(t, twice, once)
	})
}

func TestReplayOpsRoundTripsThroughNormalize(t *testing.T) {
	ops := []MaterializedOp{addStrong(2, 9), removeStrong(5, 13), addStrong(11, 16)}
	replayed := ReplayOps(ops, 20)
	normalized := Normalize(replayed, 20)
	spansEqual(t, normalized, replayed)
}

// A mark reaching the last character (End == length-1) must not leave a
// trailing span at position length: ReplayOps(ops, L) must already equal
// Normalize(ReplayOps(ops, L), L).
func TestReplayOpsTruncatesAtLength(t *testing.T) {
	got := ReplayOps([]MaterializedOp{addStrong(0, 4)}, 5)
	spansEqual(t, got, []FormatSpan{strongSpan(0)})

	normalized := Normalize(got, 5)
	spansEqual(t, normalized, got)
}

func TestGetSpanAtPosition(t *testing.T) {
	mk := func(start int) FormatSpan { return FormatSpan{Start: start, Marks: NewMarkSet()} }
	spans := []FormatSpan{mk(3), mk(4), mk(7), mk(9), mk(11), mk(15), mk(16), mk(21)}

	t.Run("empty list", func(t *testing.T) {
		if _, _, ok := GetSpanAtPosition(nil, 5); ok {
			t.Fatal("expected not ok for empty span list")
		}
	})

	t.Run("query before first span", func(t *testing.T) {
		if _, _, ok := GetSpanAtPosition(spans, 2); ok {
			t.Fatal("expected not ok for a position before every span")
		}
	})

	t.Run("query 5 lands in span starting at 4", func(t *testing.T) {
		span, idx, ok := GetSpanAtPosition(spans, 5)
		if !ok || span.Start != 4 || idx != 1 {
			t.Fatalf("expected (start=4, idx=1), got (start=%d, idx=%d, ok=%v)", span.Start, idx, ok)
		}
	})

	t.Run("query 20 lands in span starting at 16", func(t *testing.T) {
		span, idx, ok := GetSpanAtPosition(spans, 20)
		if !ok || span.Start != 16 || idx != 6 {
			t.Fatalf("expected (start=16, idx=6), got (start=%d, idx=%d, ok=%v)", span.Start, idx, ok)
		}
	})

	t.Run("query past every span lands in the last one", func(t *testing.T) {
		span, idx, ok := GetSpanAtPosition(spans, 10000)
		if !ok || span.Start != 21 || idx != 7 {
			t.Fatalf("expected (start=21, idx=7), got (start=%d, idx=%d, ok=%v)", span.Start, idx, ok)
		}
	})

	t.Run("exact hit", func(t *testing.T) {
		span, idx, ok := GetSpanAtPosition(spans, 15)
		if !ok || span.Start != 15 || idx != 5 {
			t.Fatalf("expected (start=15, idx=5), got (start=%d, idx=%d, ok=%v)", span.Start, idx, ok)
		}
	})
}

func TestMarkValueString(t *testing.T) {
	cases := []struct {
		v    MarkValue
		want string
	}{
		{MarkValue{Type: MarkStrong}, "strong"},
		{MarkValue{Type: MarkLink, Param: "https://example.com"}, "link@https://example.com"},
		{MarkValue{Type: MarkComment, Param: "c1"}, "comment@c1"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
	}
}

func TestMarkSetOperations(t *testing.T) {
	s := NewMarkSet()
	link1 := MarkValue{Type: MarkLink, Param: "a.com"}
	link2 := MarkValue{Type: MarkLink, Param: "b.com"}

	s = s.Add(link1)
	if !reflect.DeepEqual(s.Sorted(), []MarkValue{link1}) {
		t.Fatalf("expected [%v], got %v", link1, s.Sorted())
	}

	// addMark(link, b.com) replaces any existing link value.
	s = s.RemoveType(MarkLink).Add(link2)
	if len(s) != 1 {
		t.Fatalf("expected exactly one link value, got %d", len(s))
	}
	if _, ok := s[link2]; !ok {
		t.Fatal("expected the new link value to be present")
	}
}
