package snippets

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// ClickContext carries click event data.
type ClickContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// nodeIDCounter is only touched from the update thread.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element every snippet renders into. A single flat
// struct is used for containers and sprites alike.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Width and Height size containers for hit testing and intersection
	// observation. Sprites without an image also use them as their box.
	Width, Height float64

	world          affine
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// ClipChildren restricts drawing of descendants to the node's box.
	ClipChildren bool

	ZIndex int

	UserData any

	// Sprite fields (NodeTypeSprite)
	Color Color
	image *ebiten.Image

	HitShape HitShape
	Filters  []Filter

	// Per-node callbacks (nil by default)
	OnPointerDown func(PointerContext)
	OnPointerUp   func(PointerContext)
	OnClick       func(ClickContext)
	// OnUpdate runs once per Scene.Step while the node is attached.
	OnUpdate func(dt float64)

	disposeHooks   []func()
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that draws img. A nil img draws a solid
// Width x Height box tinted by Color.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, image: img}
	nodeDefaults(n)
	return n
}

// SetImage replaces the sprite's image. Nil reverts to a solid box.
func (n *Node) SetImage(img *ebiten.Image) {
	n.image = img
}

// Image returns the sprite's image, or nil if none is set.
func (n *Node) Image() *ebiten.Image {
	return n.image
}

// --- Tree manipulation ---

// AddChild appends child, detaching it from any previous parent. It panics
// on a nil child or when child is an ancestor of n.
func (n *Node) AddChild(child *Node) {
	n.adopt(child)
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// AddChildAt inserts child at index, counted after child has left any
// previous parent.
func (n *Node) AddChildAt(child *Node, index int) {
	n.adopt(child)
	if index < 0 || index > len(n.children) {
		child.Parent = nil
		panic("snippets: child index out of range")
	}
	n.children = slices.Insert(n.children, index, child)
}

// adopt validates child and makes n its parent. The caller places it in
// n.children.
func (n *Node) adopt(child *Node) {
	if child == nil {
		panic("snippets: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("snippets: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.unlink(child)
	}
	child.Parent = n
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child. It panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("snippets: child's parent is not this node")
	}
	n.unlink(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child without disposing them.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list in insertion order. Callers must not
// modify it.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// SetZIndex changes the draw and hit-test order among siblings.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// OnDispose registers fn to run when the node is disposed. Hooks run once,
// newest first, before the node's fields are cleared. Registering on an
// already disposed node runs fn immediately.
func (n *Node) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	if n.disposed {
		fn()
		return
	}
	n.disposeHooks = append(n.disposeHooks, fn)
}

// Dispose detaches the node and disposes it and its whole subtree. Later
// calls do nothing.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	hooks := n.disposeHooks
	n.disposeHooks = nil
	for _, fn := range slices.Backward(hooks) {
		fn()
	}
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.ID = 0
	n.Parent = nil
	n.children, n.sortedChildren = nil, nil
	n.image, n.HitShape, n.Filters, n.UserData = nil, nil, nil, nil
	n.OnPointerDown, n.OnPointerUp = nil, nil
	n.OnClick, n.OnUpdate = nil, nil
}

// IsDisposed reports whether Dispose has run.
func (n *Node) IsDisposed() bool { return n.disposed }

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// unlink drops child from n.children, leaving child.Parent alone.
func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
		n.childrenSorted = false
	}
}

func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// nodeDimensions returns the local box size used for hit testing and
// intersection. Sprites with an image use its pixel size.
func nodeDimensions(n *Node) (w, h float64) {
	if n.Type == NodeTypeSprite && n.image != nil {
		b := n.image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	}
	return n.Width, n.Height
}
