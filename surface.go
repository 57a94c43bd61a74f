package snippets

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScrollBehavior selects how ScrollTo moves a surface.
type ScrollBehavior uint8

const (
	ScrollInstant ScrollBehavior = iota // jump straight to the offset
	ScrollSmooth                        // animate to the offset
)

// ScrollToOptions describes a scroll command.
type ScrollToOptions struct {
	Top      float64
	Behavior ScrollBehavior
	// Duration overrides the surface's SmoothDuration when positive, in seconds.
	Duration float32
}

// ScrollEvent is delivered to scroll listeners once per frame in which the
// offset of the surface changed.
type ScrollEvent struct {
	Target Scrollable
	Top    float64
	Delta  float64
}

// Scrollable is anything that reports and accepts a vertical scroll offset
// and notifies listeners when it changes.
type Scrollable interface {
	ScrollTop() float64
	SetScrollTop(top float64)
	OnScroll(fn func(ScrollEvent)) *Subscription
}

// SmoothScroller is implemented by scrollables that can animate to an offset.
type SmoothScroller interface {
	ScrollTo(opts ScrollToOptions)
}

// DocumentOffsetter is implemented by window scrollables that also report
// the document offset separately from the window offset.
type DocumentOffsetter interface {
	DocumentScrollTop() float64
}

const (
	defaultSmoothDuration = 0.45 // seconds
	defaultWheelStep      = 48.0 // pixels per wheel notch
)

// Surface is a clipped, vertically scrollable region. Its frame node is the
// visible box; children added to Content move opposite to the offset.
type Surface struct {
	Name string

	// SmoothDuration is how long a ScrollSmooth command takes, in seconds.
	SmoothDuration float32
	// Ease shapes smooth scrolling. Defaults to ease.OutCubic.
	Ease ease.TweenFunc

	frame   *Node
	content *Node

	top           float64
	dispatchedTop float64
	contentHeight float64

	anim      *gween.Tween
	listeners listenerSet[func(ScrollEvent)]
}

// newSurface creates a surface whose frame covers viewport.
func newSurface(name string, viewport Rect) *Surface {
	frame := NewContainer(name)
	frame.X = viewport.X
	frame.Y = viewport.Y
	frame.Width = viewport.Width
	frame.Height = viewport.Height
	frame.ClipChildren = true
	frame.Interactable = true

	content := NewContainer(name + "/content")
	content.Interactable = true
	frame.AddChild(content)

	return &Surface{
		Name:           name,
		SmoothDuration: defaultSmoothDuration,
		Ease:           ease.OutCubic,
		frame:          frame,
		content:        content,
	}
}

// NewSurface creates a scroll surface with the given viewport and registers
// it with the scene so it animates and dispatches scroll events. The caller
// attaches Frame() wherever the surface should appear.
func (s *Scene) NewSurface(name string, viewport Rect) *Surface {
	sf := newSurface(name, viewport)
	s.surfaces = append(s.surfaces, sf)
	sf.frame.OnDispose(func() { s.RemoveSurface(sf) })
	return sf
}

// RemoveSurface stops animating and dispatching for sf.
func (s *Scene) RemoveSurface(sf *Surface) {
	for i, c := range s.surfaces {
		if c == sf {
			s.surfaces = append(s.surfaces[:i], s.surfaces[i+1:]...)
			return
		}
	}
}

// Surfaces returns the registered surfaces, window first. The returned
// slice MUST NOT be mutated.
func (s *Scene) Surfaces() []*Surface {
	return s.surfaces
}

// Frame returns the clipping node that positions the surface.
func (sf *Surface) Frame() *Node {
	return sf.frame
}

// Content returns the node whose children scroll.
func (sf *Surface) Content() *Node {
	return sf.content
}

// Viewport returns the visible box in world space.
func (sf *Surface) Viewport() Rect {
	return sf.frame.WorldBounds()
}

// SetViewportSize resizes the visible box and re-clamps the offset.
func (sf *Surface) SetViewportSize(w, h float64) {
	sf.frame.Width = w
	sf.frame.Height = h
	sf.setTop(sf.top)
}

// SetContentHeight sets the scrollable extent. Zero leaves the offset
// unbounded above (it is still never negative).
func (sf *Surface) SetContentHeight(h float64) {
	sf.contentHeight = h
	sf.setTop(sf.top)
}

// ContentHeight returns the scrollable extent.
func (sf *Surface) ContentHeight() float64 {
	return sf.contentHeight
}

// MaxScrollTop returns the largest reachable offset, or -1 when unbounded.
func (sf *Surface) MaxScrollTop() float64 {
	if sf.contentHeight <= 0 {
		return -1
	}
	return max(0, sf.contentHeight-sf.frame.Height)
}

// ScrollTop returns the current vertical offset.
func (sf *Surface) ScrollTop() float64 {
	return sf.top
}

// SetScrollTop jumps to top, cancelling any smooth scroll in progress.
func (sf *Surface) SetScrollTop(top float64) {
	sf.anim = nil
	sf.setTop(top)
}

// ScrollBy moves the offset by dy without animation.
func (sf *Surface) ScrollBy(dy float64) {
	sf.SetScrollTop(sf.top + dy)
}

// ScrollTo moves to opts.Top, animating with gween when opts.Behavior is
// ScrollSmooth and the effective duration is positive.
func (sf *Surface) ScrollTo(opts ScrollToOptions) {
	target := sf.clamp(opts.Top)
	dur := sf.SmoothDuration
	if opts.Duration > 0 {
		dur = opts.Duration
	}
	if opts.Behavior != ScrollSmooth || dur <= 0 {
		sf.SetScrollTop(target)
		return
	}
	if target == sf.top {
		sf.anim = nil
		return
	}
	fn := sf.Ease
	if fn == nil {
		fn = ease.OutCubic
	}
	sf.anim = gween.New(float32(sf.top), float32(target), dur, fn)
}

// Scrolling reports whether a smooth scroll is in progress.
func (sf *Surface) Scrolling() bool {
	return sf.anim != nil
}

// OnScroll registers a passive scroll listener.
func (sf *Surface) OnScroll(fn func(ScrollEvent)) *Subscription {
	return sf.listeners.add(fn)
}

// Listeners returns the number of registered scroll listeners.
func (sf *Surface) Listeners() int {
	return sf.listeners.count()
}

func (sf *Surface) clamp(top float64) float64 {
	if top < 0 {
		top = 0
	}
	if m := sf.MaxScrollTop(); m >= 0 && top > m {
		top = m
	}
	return top
}

func (sf *Surface) setTop(top float64) {
	sf.top = sf.clamp(top)
	if sf.content.Y != -sf.top {
		sf.content.Y = -sf.top
		sf.content.MarkDirty()
	}
}

// update advances a smooth scroll and dispatches a scroll event when the
// offset moved since the last dispatch. Called from Scene.Step.
func (sf *Surface) update(dt float32) {
	if sf.anim != nil {
		val, done := sf.anim.Update(dt)
		sf.setTop(float64(val))
		if done {
			sf.anim = nil
		}
	}
	if sf.top == sf.dispatchedTop {
		return
	}
	ev := ScrollEvent{Target: sf, Top: sf.top, Delta: sf.top - sf.dispatchedTop}
	sf.dispatchedTop = sf.top
	for _, fn := range sf.listeners.snapshot() {
		fn(ev)
	}
}
