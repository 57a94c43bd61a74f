package snippets

import (
	"fmt"
	"strings"
	"testing"
)

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, contains) {
			t.Errorf("panic message should mention %q, got: %s", contains, msg)
		}
	}()
	fn()
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewContainer("parent")
	s.Root().AddChild(parent)
	child := NewContainer("child")
	child.Dispose()

	expectPanic(t, "disposed", func() { parent.AddChild(child) })
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewContainer("parent")
	parent.Dispose()

	expectPanic(t, "disposed", func() { parent.AddChild(NewContainer("child")) })
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	parent := NewContainer("parent")
	child := NewContainer("child")
	child.Dispose()
	parent.AddChild(child)
}

func TestDebugMode_TreeDepth(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	expectPanic(t, "tree depth", func() {
		n := NewContainer("0")
		for i := 1; i <= debugMaxTreeDepth+1; i++ {
			c := NewContainer(fmt.Sprint(i))
			n.AddChild(c)
			n = c
		}
	})
}

func TestDebugStatsPopulated(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	s.NewIntersectionObserver(nil, ObserverOptions{})
	s.Post(func() {})
	s.RequestFrame(func() {})
	s.Step(1.0 / 60)

	st := s.stats
	if st.frame != 1 || st.posted != 1 || st.frameCallbacks != 1 {
		t.Errorf("stats = %+v, want frame 1, posted 1, frameCallbacks 1", st)
	}
	if st.observers != 1 || st.surfaces != 1 {
		t.Errorf("stats = %+v, want 1 observer and 1 surface", st)
	}
}
