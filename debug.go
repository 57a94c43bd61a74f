package snippets

import (
	"fmt"
	"time"
)

// debugStats holds per-frame counters. Only populated when Scene.debug is true.
type debugStats struct {
	frame          uint64
	posted         int
	frameCallbacks int
	pendingFrames  int
	observers      int
	surfaces       int
	sprites        int
	filtered       int
	updateTime     time.Duration
	drawTime       time.Duration
}

// debugLog writes the last frame's stats at debug level.
func (s *Scene) debugLog() {
	st := s.stats
	s.log.Debug().
		Uint64("frame", st.frame).
		Int("posted", st.posted).
		Int("frame_callbacks", st.frameCallbacks).
		Int("pending_frames", st.pendingFrames).
		Int("observers", st.observers).
		Int("surfaces", st.surfaces).
		Int("sprites", st.sprites).
		Int("filtered", st.filtered).
		Dur("update", st.updateTime).
		Dur("draw", st.drawTime).
		Msg("frame stats")
}

// debugCheckDisposed panics when a disposed node is used in a tree operation.
// Callers only invoke it in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("snippets: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth panics when a node sits deeper than debugMaxTreeDepth.
func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		panic(fmt.Sprintf("snippets: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name))
	}
}
