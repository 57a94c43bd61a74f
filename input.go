package snippets

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 reserved for touch
	defaultDragDeadZone = 4.0 // pixels
)

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

type pointerState struct {
	down    bool
	startX  float64
	startY  float64
	hitNode *Node
	moved   bool
	button  MouseButton
}

type handlerRegistry struct {
	pointerDown listenerSet[func(PointerContext)]
	pointerUp   listenerSet[func(PointerContext)]
	click       listenerSet[func(ClickContext)]
}

// OnPointerDown registers a scene-level callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) *Subscription {
	return s.handlers.pointerDown.add(fn)
}

// OnPointerUp registers a scene-level callback for pointer up events.
func (s *Scene) OnPointerUp(fn func(PointerContext)) *Subscription {
	return s.handlers.pointerUp.add(fn)
}

// OnClick registers a scene-level callback for click events.
func (s *Scene) OnClick(fn func(ClickContext)) *Subscription {
	return s.handlers.click.add(fn)
}

// CapturePointer routes all events for pointerID to the given node.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets how far a pointer may travel between press and
// release and still produce a click.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise derives AABB from node dimensions.
// Containers with no HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := nodeDimensions(n)
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending hit-testable nodes to buf. Skips Visible=false or
// Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}
	if len(n.children) == 0 {
		return buf
	}
	children := n.children
	if !n.childrenSorted {
		rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.base, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// surfaceAt returns the most recently registered surface whose viewport
// contains (x, y), falling back to the window.
func (s *Scene) surfaceAt(x, y float64) *Surface {
	for i := len(s.surfaces) - 1; i > 0; i-- {
		sf := s.surfaces[i]
		if !s.attached(sf.frame) || !visibleInTree(sf.frame) {
			continue
		}
		if sf.Viewport().Contains(x, y) {
			return sf
		}
	}
	return s.window
}

// scrollAt scrolls the surface under (x, y) by notches wheel steps. Positive
// notches move the content up, matching ebiten's wheel sign.
func (s *Scene) scrollAt(x, y, notches float64) {
	if notches == 0 {
		return
	}
	s.surfaceAt(x, y).ScrollBy(-notches * s.WheelStep)
}

var modifierKeys = [...]struct {
	key ebiten.Key
	mod KeyModifiers
}{
	{ebiten.KeyShift, ModShift},
	{ebiten.KeyControl, ModCtrl},
	{ebiten.KeyAlt, ModAlt},
	{ebiten.KeyMeta, ModMeta},
}

var mouseButtons = [...]struct {
	eb  ebiten.MouseButton
	btn MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	for _, k := range modifierKeys {
		if ebiten.IsKeyPressed(k.key) {
			mods |= k.mod
		}
	}
	return mods
}

// readButton returns the first pressed mouse button, left before right
// before middle.
func readButton() (MouseButton, bool) {
	for _, b := range mouseButtons {
		if ebiten.IsMouseButtonPressed(b.eb) {
			return b.btn, true
		}
	}
	return MouseButtonLeft, false
}

// processInput consumes one injected event if any is queued, otherwise
// reads the mouse when realInput is set.
func (s *Scene) processInput(realInput bool) {
	if s.processInjectedInput() || !realInput {
		return
	}
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	button, pressed := readButton()
	s.processPointer(0, x, y, pressed, button, readModifiers())

	if _, wheel := ebiten.Wheel(); wheel != 0 {
		s.scrollAt(x, y, wheel)
	}
}

// processPointer advances the press/release state of one pointer. A release
// over the node that took the press, without leaving the drag dead zone in
// between, is a click.
func (s *Scene) processPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointers[pointerID]
	target := s.captured[pointerID]
	if target == nil {
		target = s.hitTest(wx, wy)
	}

	if ps.down && s.pastDeadZone(ps, wx, wy) {
		ps.moved = true
	}

	switch {
	case pressed && !ps.down:
		*ps = pointerState{
			down: true, button: button, hitNode: target,
			startX: wx, startY: wy,
		}
		ctx := pointerContext(target, pointerID, wx, wy, button, mods)
		dispatch(s.handlers.pointerDown.snapshot(), ctx, target, target.pointerDownHook())
	case !pressed && ps.down:
		ctx := pointerContext(target, pointerID, wx, wy, ps.button, mods)
		if !ps.moved && ps.hitNode != nil && ps.hitNode == target {
			dispatch(s.handlers.click.snapshot(), ClickContext(ctx), target, target.clickHook())
		}
		dispatch(s.handlers.pointerUp.snapshot(), ctx, target, target.pointerUpHook())
		s.captured[pointerID] = nil
		*ps = pointerState{}
	}
}

func (s *Scene) pastDeadZone(ps *pointerState, x, y float64) bool {
	dx, dy := x-ps.startX, y-ps.startY
	return dx*dx+dy*dy > s.dragDeadZone*s.dragDeadZone
}

func pointerContext(node *Node, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) PointerContext {
	ctx := PointerContext{
		Node: node, GlobalX: wx, GlobalY: wy,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
		ctx.UserData = node.UserData
	}
	return ctx
}

// dispatch runs scene handlers first, then the node's own callback.
func dispatch[C any](handlers []func(C), ctx C, node *Node, hook func(C)) {
	for _, fn := range handlers {
		fn(ctx)
	}
	if node != nil && hook != nil {
		hook(ctx)
	}
}

func (n *Node) pointerDownHook() func(PointerContext) {
	if n == nil {
		return nil
	}
	return n.OnPointerDown
}

func (n *Node) pointerUpHook() func(PointerContext) {
	if n == nil {
		return nil
	}
	return n.OnPointerUp
}

func (n *Node) clickHook() func(ClickContext) {
	if n == nil {
		return nil
	}
	return n.OnClick
}
