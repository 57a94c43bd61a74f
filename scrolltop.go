package snippets

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

const (
	defaultScrollThreshold = 280.0
	defaultButtonSize      = 48.0
	defaultButtonInset     = 24.0
	defaultFadeDuration    = 200 * time.Millisecond
)

var (
	defaultButtonColor = Color{0.13, 0.15, 0.2, 0.9}
	defaultIconColor   = ColorWhite
)

// ScrollTopConfig configures a ScrollTopButton. Zero values pick defaults.
type ScrollTopConfig struct {
	// Threshold is the offset in pixels the surface must exceed before the
	// button shows. Zero selects 280. A negative value shows the button on
	// any scroll away from the top.
	Threshold float64
	// Container supplies the surface to track. It is polled once per frame
	// until it returns non-nil. Nil tracks the window.
	Container func() Scrollable
	// Window is the fallback surface. Defaults to the scene's window.
	Window Scrollable

	Size      float64
	Inset     float64
	Color     Color
	IconColor Color

	FadeDuration time.Duration
	// SmoothDuration is how long scrolling back to the top takes.
	// Defaults to the surface's own duration.
	SmoothDuration time.Duration
	// MaxResolveFrames caps container polling when positive.
	MaxResolveFrames int

	OnActivate func()
}

// ScrollTopButton is a floating button pinned to the bottom-right corner of
// the screen. It fades in once the tracked surface scrolls past a threshold
// and scrolls that surface back to the top when clicked.
type ScrollTopButton struct {
	scene *Scene
	cfg   ScrollTopConfig
	log   zerolog.Logger

	node *Node
	bg   *Node
	icon *Node

	threshold float64
	window    Scrollable
	container Scrollable

	poll     *Subscription
	listener *Subscription

	visible  bool
	fade     *TweenGroup
	disposed bool
}

// NewScrollTopButton creates the button and adds it to the scene's overlay.
func NewScrollTopButton(scene *Scene, cfg ScrollTopConfig) *ScrollTopButton {
	if scene == nil {
		panic("snippets: NewScrollTopButton needs a scene")
	}
	switch {
	case cfg.Threshold == 0:
		cfg.Threshold = defaultScrollThreshold
	case cfg.Threshold < 0:
		cfg.Threshold = 0
	}
	if cfg.Window == nil {
		cfg.Window = scene.Window()
	}
	if cfg.Size <= 0 {
		cfg.Size = defaultButtonSize
	}
	if cfg.Inset == 0 {
		cfg.Inset = defaultButtonInset
	}
	if cfg.Color == (Color{}) {
		cfg.Color = defaultButtonColor
	}
	if cfg.IconColor == (Color{}) {
		cfg.IconColor = defaultIconColor
	}
	if cfg.FadeDuration <= 0 {
		cfg.FadeDuration = defaultFadeDuration
	}

	b := &ScrollTopButton{
		scene:     scene,
		cfg:       cfg,
		log:       scene.log.With().Str("component", "scrolltop").Logger(),
		threshold: cfg.Threshold,
		window:    cfg.Window,
	}
	b.build()
	scene.Overlay().AddChild(b.node)

	if cfg.Container == nil {
		b.attach()
		return b
	}
	b.poll = pollSurface(scene, cfg.Container, b.resolved, cfg.MaxResolveFrames, func() {
		b.log.Warn().Int("frames", cfg.MaxResolveFrames).Msg("container never resolved")
	})
	return b
}

func (b *ScrollTopButton) build() {
	size := b.cfg.Size
	b.node = NewContainer("scrolltop")
	b.node.Width = size
	b.node.Height = size
	b.node.Alpha = 0
	b.node.HitShape = HitCircle{CenterX: size / 2, CenterY: size / 2, Radius: size / 2}
	b.node.OnClick = func(ClickContext) { b.Activate() }
	b.node.OnUpdate = b.update
	b.node.OnDispose(b.teardown)

	px := int(math.Ceil(size))
	b.bg = NewSprite("scrolltop/bg", discImage(px, b.cfg.Color))
	b.bg.SetScale(size/float64(px), size/float64(px))
	b.icon = NewSprite("scrolltop/icon", chevronImage(px, b.cfg.IconColor))
	b.icon.SetScale(size/float64(px), size/float64(px))
	b.node.AddChild(b.bg)
	b.node.AddChild(b.icon)
	b.place()
}

// Node returns the button node.
func (b *ScrollTopButton) Node() *Node { return b.node }

// IsVisible reports whether the tracked offset exceeds the threshold.
func (b *ScrollTopButton) IsVisible() bool { return b.visible }

// Container returns the resolved container, or nil while tracking the window.
func (b *ScrollTopButton) Container() Scrollable { return b.container }

// Threshold returns the current threshold in pixels.
func (b *ScrollTopButton) Threshold() float64 { return b.threshold }

// SetThreshold changes the threshold and re-attaches the scroll listener.
// Negative values are treated as zero.
func (b *ScrollTopButton) SetThreshold(px float64) {
	px = max(0, px)
	if px == b.threshold || b.disposed {
		return
	}
	b.threshold = px
	if b.listener.Active() {
		b.attach()
	}
}

// Listeners returns how many scroll listeners the button holds, 0 or 1.
func (b *ScrollTopButton) Listeners() int {
	if b.listener.Active() {
		return 1
	}
	return 0
}

// Activate scrolls the tracked surface to the top, smoothly when it
// supports it. Safe at offset zero and while hidden.
func (b *ScrollTopButton) Activate() {
	if b.disposed {
		return
	}
	target := b.tracked()
	b.log.Debug().Float64("from", target.ScrollTop()).Msg("scroll to top")
	if ss, ok := target.(SmoothScroller); ok {
		ss.ScrollTo(ScrollToOptions{
			Top:      0,
			Behavior: ScrollSmooth,
			Duration: float32(b.cfg.SmoothDuration.Seconds()),
		})
	} else {
		target.SetScrollTop(0)
	}
	if b.cfg.OnActivate != nil {
		b.cfg.OnActivate()
	}
}

// Dispose removes the button and releases its listener and any pending
// container poll. Safe to call more than once.
func (b *ScrollTopButton) Dispose() {
	b.node.Dispose()
}

func (b *ScrollTopButton) resolved(sf Scrollable) {
	b.poll = nil
	b.container = sf
	b.log.Debug().Msg("container resolved")
	b.attach()
}

// tracked returns the container when resolved, else the window.
func (b *ScrollTopButton) tracked() Scrollable {
	if b.container != nil {
		return b.container
	}
	return b.window
}

// attach replaces the scroll listener with one on the tracked surface and
// evaluates the current offset.
func (b *ScrollTopButton) attach() {
	b.listener.Dispose()
	b.listener = b.tracked().OnScroll(func(ScrollEvent) { b.evaluate() })
	b.evaluate()
}

// offset reads the container offset, or the larger of the window and
// document offsets.
func (b *ScrollTopButton) offset() float64 {
	if b.container != nil {
		return b.container.ScrollTop()
	}
	top := b.window.ScrollTop()
	if d, ok := b.window.(DocumentOffsetter); ok {
		top = max(top, d.DocumentScrollTop())
	}
	return top
}

func (b *ScrollTopButton) evaluate() {
	if b.disposed {
		return
	}
	b.setVisible(b.offset() > b.threshold)
}

func (b *ScrollTopButton) setVisible(v bool) {
	if v == b.visible {
		return
	}
	b.visible = v
	b.node.Interactable = v
	to := 0.0
	if v {
		to = 1
	}
	b.fade = TweenAlpha(b.node, to, float32(b.cfg.FadeDuration.Seconds()), ease.OutQuad)
}

func (b *ScrollTopButton) update(dt float64) {
	b.place()
	if b.fade == nil {
		return
	}
	b.fade.Update(float32(dt))
	if b.fade.Done {
		b.fade = nil
	}
}

// place pins the button to the bottom-right corner of the screen.
func (b *ScrollTopButton) place() {
	w, h := b.scene.ScreenSize()
	x := w - b.cfg.Inset - b.cfg.Size
	y := h - b.cfg.Inset - b.cfg.Size
	if b.node.X != x || b.node.Y != y {
		b.node.SetPosition(x, y)
	}
}

func (b *ScrollTopButton) teardown() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.poll.Dispose()
	b.poll = nil
	b.listener.Dispose()
	b.listener = nil
	b.fade = nil
}

// discImage draws a filled circle of diameter px.
func discImage(px int, c Color) *ebiten.Image {
	img := ebiten.NewImage(px, px)
	r := float32(px) / 2
	vector.DrawFilledCircle(img, r, r, r, c.toRGBA(), true)
	return img
}

// chevronImage draws an upward chevron centered in a px square.
func chevronImage(px int, c Color) *ebiten.Image {
	img := ebiten.NewImage(px, px)
	s := float32(px)
	ax, ay := s*0.5, s*0.36
	width := max(2, s*0.09)
	clr := c.toRGBA()
	vector.StrokeLine(img, s*0.3, s*0.58, ax, ay, width, clr, true)
	vector.StrokeLine(img, ax, ay, s*0.7, s*0.58, width, clr, true)
	vector.DrawFilledCircle(img, ax, ay, width/2, clr, true)
	return img
}
