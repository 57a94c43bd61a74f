package snippets

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

const (
	defaultScreenWidth  = 800
	defaultScreenHeight = 600
)

// Scene is the top-level object that owns the node tree, the window surface,
// frame callbacks, observers, input state and render buffers. All of its
// methods except Post must be called from the update thread.
type Scene struct {
	base    *Node
	window  *Surface
	overlay *Node

	surfaces       []*Surface
	observers      []*IntersectionObserver
	noIntersection bool
	frames         frameQueue

	mailMu  sync.Mutex
	mailbox []func()

	screenW, screenH float64

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color
	// WheelStep is how many pixels one mouse wheel notch scrolls.
	WheelStep float64

	loader *Loader
	log    zerolog.Logger
	debug  bool
	stats  debugStats

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent

	// Render state
	rtPool renderTexturePool
	drawOp ebiten.DrawImageOptions

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string
	screenshotSeq   int
	testRunner      *TestRunner

	frame uint64
}

// NewScene creates a scene with a screen-sized window surface and an
// overlay layer for fixed-position nodes.
func NewScene() *Scene {
	s := &Scene{
		base:          NewContainer("scene"),
		overlay:       NewContainer("overlay"),
		screenW:       defaultScreenWidth,
		screenH:       defaultScreenHeight,
		WheelStep:     defaultWheelStep,
		dragDeadZone:  defaultDragDeadZone,
		log:           zerolog.Nop(),
		ScreenshotDir: "screenshots",
	}
	s.base.Interactable = true
	s.overlay.Interactable = true
	s.overlay.ZIndex = 1

	s.window = newSurface("window", Rect{Width: s.screenW, Height: s.screenH})
	s.surfaces = append(s.surfaces, s.window)

	s.base.AddChild(s.window.frame)
	s.base.AddChild(s.overlay)
	return s
}

// Root returns the document content node. Its children scroll with the window.
func (s *Scene) Root() *Node {
	return s.window.content
}

// Overlay returns the fixed layer drawn above the document. Its children do
// not scroll.
func (s *Scene) Overlay() *Node {
	return s.overlay
}

// Window returns the document scroll surface.
func (s *Scene) Window() *Surface {
	return s.window
}

// SetScreenSize resizes the screen and the window viewport.
func (s *Scene) SetScreenSize(w, h float64) {
	s.screenW, s.screenH = w, h
	s.window.SetViewportSize(w, h)
}

// ScreenSize returns the screen size in pixels.
func (s *Scene) ScreenSize() (w, h float64) {
	return s.screenW, s.screenH
}

// ScreenBounds returns the screen as a rectangle at the origin.
func (s *Scene) ScreenBounds() Rect {
	return Rect{Width: s.screenW, Height: s.screenH}
}

// Post queues fn to run on the update thread at the start of the next Step.
// Safe to call from any goroutine.
func (s *Scene) Post(fn func()) {
	s.mailMu.Lock()
	s.mailbox = append(s.mailbox, fn)
	s.mailMu.Unlock()
}

func (s *Scene) drainMailbox() int {
	s.mailMu.Lock()
	batch := s.mailbox
	s.mailbox = nil
	s.mailMu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Update advances the scene by one tick and processes real mouse and wheel
// input. Call it from ebiten.Game.Update.
func (s *Scene) Update() {
	s.step(float32(1.0/float64(ebiten.TPS())), true)
}

// Step advances the scene by dt seconds without reading the OS input devices.
// Injected input is still processed. Tests and headless hosts drive the
// scene through Step.
func (s *Scene) Step(dt float32) {
	s.step(dt, false)
}

func (s *Scene) step(dt float32, realInput bool) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.frame++

	posted := s.drainMailbox()

	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	callbacks := s.frames.run()

	s.refreshTransforms()
	surfaces := make([]*Surface, len(s.surfaces))
	copy(surfaces, s.surfaces)
	for _, sf := range surfaces {
		sf.update(dt)
	}
	s.refreshTransforms()

	s.evaluateObservers()
	s.processInput(realInput)
	updateNodes(s.base, float64(dt))

	if s.debug {
		s.stats.frame = s.frame
		s.stats.posted = posted
		s.stats.frameCallbacks = callbacks
		s.stats.observers = len(s.observers)
		s.stats.surfaces = len(s.surfaces)
		s.stats.pendingFrames = len(s.frames.pending)
		s.stats.updateTime = time.Since(t0)
	}
}

// updateNodes runs OnUpdate hooks depth-first. Children are snapshotted so
// hooks may add or dispose nodes.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	if len(n.children) == 0 || n.disposed {
		return
	}
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	for _, c := range children {
		if c.Parent == n {
			updateNodes(c, dt)
		}
	}
}

// attached reports whether n is part of this scene's tree.
func (s *Scene) attached(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == s.base {
			return true
		}
	}
	return false
}

// Loader returns the scene's image loader, creating it on first use with
// DefaultFetcher. Results are delivered through Post.
func (s *Scene) Loader() *Loader {
	if s.loader == nil {
		s.loader = NewLoader(LoaderOptions{Dispatcher: s, Logger: s.log})
	}
	return s.loader
}

// SetLoader replaces the scene's image loader. The previous loader is not closed.
func (s *Scene) SetLoader(l *Loader) {
	s.loader = l
}

// Close releases background resources owned by the scene.
func (s *Scene) Close() error {
	if s.loader == nil {
		return nil
	}
	return s.loader.Close()
}

// SetLogger sets the logger used by the scene and the snippets it hosts.
func (s *Scene) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Logger returns the scene's logger.
func (s *Scene) Logger() zerolog.Logger {
	return s.log
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, deep trees are reported, and per-frame stats are logged at
// debug level after each Draw.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
