package crdt

import "testing"

func TestOpIDOrder(t *testing.T) {
	a := OpID{Counter: 1, Actor: "a"}
	b := OpID{Counter: 1, Actor: "b"}
	c := OpID{Counter: 2, Actor: "a"}

	t.Run("counter dominates actor", func(t *testing.T) {
		if !a.Less(c) {
			t.Fatalf("expected %v < %v", a, c)
		}
		if c.Less(a) {
			t.Fatalf("expected %v not < %v", c, a)
		}
	})

	t.Run("actor tie-break", func(t *testing.T) {
		if !a.Less(b) {
			t.Fatalf("expected %v < %v (actor tie-break)", a, b)
		}
	})

	t.Run("Greater is the mirror of Less", func(t *testing.T) {
		if !c.Greater(a) {
			t.Fatalf("expected %v > %v", c, a)
		}
	})

	t.Run("head sentinel", func(t *testing.T) {
		if !Head.IsHead() {
			t.Fatal("Head.IsHead() should be true")
		}
		if a.IsHead() {
			t.Fatal("non-zero OpID should not be head")
		}
	})
}
