package snippets

// IntersectionEntry describes one target's relation to an observer's root
// at the moment it was evaluated.
type IntersectionEntry struct {
	Target           *Node
	BoundingRect     Rect
	RootBounds       Rect
	IntersectionRect Rect
	IsIntersecting   bool
	// Ratio is the fraction of the target's area inside the root, in [0, 1].
	Ratio float64
}

// IntersectionCallback receives the entries whose state changed in a frame.
type IntersectionCallback func(entries []IntersectionEntry, obs *IntersectionObserver)

// ObserverOptions configures an IntersectionObserver.
type ObserverOptions struct {
	// Root is the surface whose viewport targets are tested against.
	// Nil uses the screen.
	Root *Surface
	// Margin expands the root before testing.
	Margin Margin
}

type observedTarget struct {
	node *Node
	// state is -1 before the first evaluation, then 0 or 1.
	state int8
}

// IntersectionObserver reports when observed nodes enter or leave a root
// viewport grown by a margin. Observers are evaluated once per Scene.Step,
// after world transforms are current.
type IntersectionObserver struct {
	scene     *Scene
	opts      ObserverOptions
	cb        IntersectionCallback
	targets   []observedTarget
	connected bool
	entries   []IntersectionEntry
}

// NewIntersectionObserver creates an observer and registers it with the
// scene. It does nothing until Observe is called.
func (s *Scene) NewIntersectionObserver(cb IntersectionCallback, opts ObserverOptions) *IntersectionObserver {
	o := &IntersectionObserver{scene: s, opts: opts, cb: cb, connected: true}
	s.observers = append(s.observers, o)
	return o
}

// SetIntersectionSupported toggles whether the scene offers intersection
// observation. Snippets check this once when they are created.
func (s *Scene) SetIntersectionSupported(supported bool) {
	s.noIntersection = !supported
}

// IntersectionSupported reports whether intersection observation is offered.
func (s *Scene) IntersectionSupported() bool {
	return !s.noIntersection
}

// Observers returns the number of connected observers.
func (s *Scene) Observers() int {
	return len(s.observers)
}

// Observe starts watching n. Observing a node twice is a no-op. The first
// evaluation always reports an entry for n.
func (o *IntersectionObserver) Observe(n *Node) {
	if !o.connected || n == nil {
		return
	}
	for _, t := range o.targets {
		if t.node == n {
			return
		}
	}
	o.targets = append(o.targets, observedTarget{node: n, state: -1})
}

// Unobserve stops watching n.
func (o *IntersectionObserver) Unobserve(n *Node) {
	for i, t := range o.targets {
		if t.node == n {
			copy(o.targets[i:], o.targets[i+1:])
			o.targets[len(o.targets)-1] = observedTarget{}
			o.targets = o.targets[:len(o.targets)-1]
			return
		}
	}
}

// Disconnect stops watching every target and unregisters the observer.
// Safe to call more than once.
func (o *IntersectionObserver) Disconnect() {
	if !o.connected {
		return
	}
	o.connected = false
	o.targets = nil
	s := o.scene
	for i, c := range s.observers {
		if c == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			break
		}
	}
}

// Connected reports whether Disconnect has not been called.
func (o *IntersectionObserver) Connected() bool {
	return o.connected
}

// Targets returns the number of observed nodes.
func (o *IntersectionObserver) Targets() int {
	return len(o.targets)
}

// rootBounds returns the margin-expanded root rectangle.
func (o *IntersectionObserver) rootBounds() Rect {
	var root Rect
	if o.opts.Root != nil {
		root = o.opts.Root.Viewport()
	} else {
		root = o.scene.ScreenBounds()
	}
	return o.opts.Margin.Apply(root)
}

// evaluate tests every target and invokes the callback with the entries
// whose intersecting state changed.
func (o *IntersectionObserver) evaluate() {
	if !o.connected || len(o.targets) == 0 {
		return
	}
	root := o.rootBounds()
	o.entries = o.entries[:0]

	kept := o.targets[:0]
	for _, t := range o.targets {
		if t.node.IsDisposed() {
			continue
		}
		entry := o.measure(t.node, root)
		state := int8(0)
		if entry.IsIntersecting {
			state = 1
		}
		if state != t.state {
			t.state = state
			o.entries = append(o.entries, entry)
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(o.targets); i++ {
		o.targets[i] = observedTarget{}
	}
	o.targets = kept

	if len(o.entries) == 0 || o.cb == nil {
		return
	}
	entries := make([]IntersectionEntry, len(o.entries))
	copy(entries, o.entries)
	o.cb(entries, o)
}

// measure computes the entry for n. Nodes outside the scene tree or hidden
// by an ancestor never intersect.
func (o *IntersectionObserver) measure(n *Node, root Rect) IntersectionEntry {
	entry := IntersectionEntry{Target: n, RootBounds: root}
	if !o.scene.attached(n) || !visibleInTree(n) {
		return entry
	}
	box := n.WorldBounds()
	entry.BoundingRect = box
	shown, ok := o.clip(n, box)
	if !ok || !shown.Intersects(root) {
		return entry
	}
	entry.IsIntersecting = true
	entry.IntersectionRect = shown.Intersection(root)
	if area := box.Width * box.Height; area > 0 {
		entry.Ratio = clamp01(entry.IntersectionRect.Width * entry.IntersectionRect.Height / area)
	} else {
		entry.Ratio = 1
	}
	return entry
}

// clip trims box by every ClipChildren ancestor of n below the root
// surface's frame. It reports false once nothing of box is left.
func (o *IntersectionObserver) clip(n *Node, box Rect) (Rect, bool) {
	stop := o.scene.Window().Frame()
	if o.opts.Root != nil {
		stop = o.opts.Root.Frame()
	}
	for p := n.Parent; p != nil && p != stop; p = p.Parent {
		if !p.ClipChildren {
			continue
		}
		frame := p.WorldBounds()
		if !box.Intersects(frame) {
			return Rect{}, false
		}
		box = box.Intersection(frame)
	}
	return box, true
}

// visibleInTree reports whether n and all its ancestors are Visible.
func visibleInTree(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// evaluateObservers runs every connected observer. Observers created or
// disconnected by callbacks take effect next frame.
func (s *Scene) evaluateObservers() {
	if len(s.observers) == 0 {
		return
	}
	batch := make([]*IntersectionObserver, len(s.observers))
	copy(batch, s.observers)
	for _, o := range batch {
		o.evaluate()
	}
}
