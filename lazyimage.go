package snippets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

var (
	// ErrNoSource is returned when a LazyImage is given an empty target URI.
	ErrNoSource = errors.New("lazy image needs a source")
	// ErrNoLoader is returned when neither a scene nor a loader is available.
	ErrNoLoader = errors.New("lazy image needs a scene or a loader")
)

const (
	defaultRootMargin         = "160px"
	defaultTransitionDuration = 600 * time.Millisecond
	defaultPlaceholderBlur    = 12
	defaultZoomFrom           = 1.05
)

// LazyImageConfig configures a LazyImage. Zero values pick defaults.
type LazyImageConfig struct {
	// Src is the image fetched once the box nears the viewport. Required.
	Src string
	// Placeholder is shown blurred until Src has loaded. Optional.
	Placeholder string
	// RootMargin grows the viewport before testing, in root-margin
	// shorthand ("160px", "10% 0", ...). Defaults to "160px".
	RootMargin string
	// Root limits observation to a surface's viewport. Nil uses the screen.
	Root *Surface

	TransitionDuration time.Duration
	Width, Height      float64
	Alt                string

	// Loader defaults to the scene's loader.
	Loader ImageSource

	// PlaceholderBlur is the placeholder blur radius in pixels. Negative
	// disables it.
	PlaceholderBlur int
	// ZoomFrom is the scale the main image starts at before settling to 1.
	ZoomFrom float64

	OnLoad  func()
	OnError func(error)
}

// LazyImage is a box that shows a placeholder until it comes within
// RootMargin of the viewport, then loads its real image and crossfades to it.
//
// Visibility is granted once and never revoked. The image is requested only
// after visibility, so IsLoaded implies IsVisible.
type LazyImage struct {
	scene  *Scene
	cfg    LazyImageConfig
	margin Margin
	loader ImageSource
	log    zerolog.Logger

	node        *Node
	placeholder *Node
	image       *Node
	imageBlur   *BlurFilter

	observer *IntersectionObserver

	visible  bool
	loaded   bool
	disposed bool

	requested       string
	pending         *Subscription
	placeholderLoad *Subscription

	zoom   float64
	blur   float64
	fitX   float64
	fitY   float64
	tweens tweenSet
}

// NewLazyImage creates a lazy image. Add Node() to the tree wherever the
// image should appear.
//
// A nil scene stands for a host with no viewport: the image is treated as
// visible at once and transitions complete instantly. A scene without
// intersection support behaves the same but still animates.
func NewLazyImage(scene *Scene, cfg LazyImageConfig) (*LazyImage, error) {
	if cfg.Src == "" {
		return nil, ErrNoSource
	}
	if cfg.RootMargin == "" {
		cfg.RootMargin = defaultRootMargin
	}
	margin, err := ParseMargin(cfg.RootMargin)
	if err != nil {
		return nil, fmt.Errorf("lazy image %s: %w", cfg.Src, err)
	}
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = defaultTransitionDuration
	}
	if cfg.PlaceholderBlur == 0 {
		cfg.PlaceholderBlur = defaultPlaceholderBlur
	}
	if cfg.ZoomFrom <= 0 {
		cfg.ZoomFrom = defaultZoomFrom
	}

	li := &LazyImage{
		scene:  scene,
		cfg:    cfg,
		margin: margin,
		loader: cfg.Loader,
		log:    zerolog.Nop(),
		zoom:   cfg.ZoomFrom,
		fitX:   1,
		fitY:   1,
	}
	if scene != nil {
		li.log = scene.log.With().Str("component", "lazyimage").Str("src", cfg.Src).Logger()
		if li.loader == nil {
			li.loader = scene.Loader()
		}
	}
	if li.loader == nil {
		return nil, ErrNoLoader
	}

	li.build()

	if cfg.Placeholder != "" {
		sub := li.loader.Load(cfg.Placeholder, li.placeholderDone)
		if li.placeholder.Image() == nil {
			li.placeholderLoad = sub
		}
	}

	if scene == nil || !scene.IntersectionSupported() {
		li.reveal()
	} else {
		li.observer = scene.NewIntersectionObserver(li.intersected, ObserverOptions{Root: cfg.Root, Margin: margin})
		li.observer.Observe(li.node)
		li.log.Debug().Str("margin", margin.String()).Msg("observation started")
		li.request()
	}
	return li, nil
}

func (li *LazyImage) build() {
	cfg := li.cfg
	li.node = NewContainer("lazyimage")
	li.node.Width = cfg.Width
	li.node.Height = cfg.Height
	li.node.ClipChildren = true
	li.node.UserData = cfg.Alt

	li.placeholder = NewSprite("lazyimage/placeholder", nil)
	li.placeholder.Visible = false
	if cfg.PlaceholderBlur > 0 {
		li.placeholder.Filters = []Filter{NewBlurFilter(cfg.PlaceholderBlur)}
	}

	li.image = NewSprite("lazyimage/image", nil)
	li.image.Visible = false
	li.image.Alpha = 0
	li.imageBlur = NewBlurFilter(0)
	if cfg.PlaceholderBlur > 0 {
		li.blur = float64(cfg.PlaceholderBlur)
	}

	li.node.AddChild(li.placeholder)
	li.node.AddChild(li.image)
	li.node.OnUpdate = li.update
	li.node.OnDispose(li.teardown)
	li.applyImageTransform()
}

// Node returns the container node.
func (li *LazyImage) Node() *Node { return li.node }

// IsVisible reports whether the box has come near the viewport.
func (li *LazyImage) IsVisible() bool { return li.visible }

// IsLoaded reports whether the target image finished loading.
func (li *LazyImage) IsLoaded() bool { return li.loaded }

// Source returns the URI the main image requests: the placeholder while
// not visible, the target once visible.
func (li *LazyImage) Source() string {
	if li.visible {
		return li.cfg.Src
	}
	return li.cfg.Placeholder
}

// Alt returns the alternative text.
func (li *LazyImage) Alt() string { return li.cfg.Alt }

// PlaceholderAlpha returns the placeholder's opacity, 0 when there is none.
func (li *LazyImage) PlaceholderAlpha() float64 {
	if li.cfg.Placeholder == "" {
		return 0
	}
	return li.placeholder.Alpha
}

// ImageAlpha returns the main image's opacity.
func (li *LazyImage) ImageAlpha() float64 { return li.image.Alpha }

// SetSource replaces the target URI, resetting the load state. Hosts use it
// to retry after OnError.
func (li *LazyImage) SetSource(uri string) error {
	if uri == "" {
		return ErrNoSource
	}
	if li.disposed {
		return nil
	}
	li.cfg.Src = uri
	li.loaded = false
	li.tweens = li.tweens[:0]
	li.placeholder.Alpha = 1
	li.placeholder.MarkDirty()
	li.image.Alpha = 0
	li.zoom = li.cfg.ZoomFrom
	li.blur = max(0, float64(li.cfg.PlaceholderBlur))
	li.applyImageTransform()
	li.requested = ""
	li.request()
	return nil
}

// Dispose removes the image from the tree and releases its observer and any
// pending load. Safe to call more than once.
func (li *LazyImage) Dispose() {
	li.node.Dispose()
}

func (li *LazyImage) intersected(entries []IntersectionEntry, _ *IntersectionObserver) {
	for _, e := range entries {
		if e.IsIntersecting {
			li.reveal()
			return
		}
	}
}

// reveal grants visibility once, stops observing, and requests the target.
func (li *LazyImage) reveal() {
	if li.visible || li.disposed {
		return
	}
	li.visible = true
	if li.observer != nil {
		li.observer.Disconnect()
		li.observer = nil
		li.log.Debug().Msg("observation stopped: intersecting")
	}
	li.request()
}

// request asks the loader for Source() unless it is already requested.
func (li *LazyImage) request() {
	uri := li.Source()
	if uri == li.requested {
		return
	}
	li.pending.Dispose()
	li.pending = nil
	li.requested = uri
	if uri == "" {
		return
	}
	target := li.visible
	finished := false
	sub := li.loader.Load(uri, func(img *ebiten.Image, err error) {
		finished = true
		li.pending = nil
		li.loadDone(target, img, err)
	})
	if !finished {
		li.pending = sub
	}
}

func (li *LazyImage) loadDone(target bool, img *ebiten.Image, err error) {
	if li.disposed {
		return
	}
	if !target {
		// The placeholder is never reported as a load.
		if err == nil {
			li.setImage(img)
		}
		return
	}
	if err != nil {
		li.loaded = false
		li.log.Warn().Err(err).Msg("load failed")
		if li.cfg.OnError != nil {
			li.cfg.OnError(err)
		}
		return
	}
	li.setImage(img)
	li.loaded = true
	li.log.Debug().Msg("loaded")
	li.startTransition()
	if li.cfg.OnLoad != nil {
		li.cfg.OnLoad()
	}
}

func (li *LazyImage) placeholderDone(img *ebiten.Image, err error) {
	li.placeholderLoad = nil
	if li.disposed {
		return
	}
	if err != nil {
		li.log.Debug().Err(err).Msg("placeholder failed")
		return
	}
	li.placeholder.SetImage(img)
	li.placeholder.Visible = true
	sx, sy := fitScale(img, li.cfg.Width, li.cfg.Height)
	li.placeholder.SetScale(sx, sy)
}

func (li *LazyImage) setImage(img *ebiten.Image) {
	li.image.SetImage(img)
	li.image.Visible = true
	li.fitX, li.fitY = fitScale(img, li.cfg.Width, li.cfg.Height)
	li.applyImageTransform()
}

// startTransition fades the placeholder out and the main image in while
// zooming and sharpening it.
func (li *LazyImage) startTransition() {
	dur := float32(li.cfg.TransitionDuration.Seconds())
	li.tweens = append(li.tweens[:0],
		TweenAlpha(li.placeholder, 0, dur, ease.OutQuad),
		TweenAlpha(li.image, 1, dur, ease.OutQuad),
		TweenValue(li.image, &li.zoom, 1, dur, ease.OutCubic),
		TweenValue(li.image, &li.blur, 0, dur, ease.OutCubic),
	)
	if li.scene == nil {
		li.tweens.finish()
		li.applyImageTransform()
	}
}

func (li *LazyImage) update(dt float64) {
	if len(li.tweens) == 0 {
		return
	}
	li.tweens.update(float32(dt))
	li.applyImageTransform()
}

// applyImageTransform scales the main image around the box center and sets
// its blur.
func (li *LazyImage) applyImageTransform() {
	w, h := li.cfg.Width, li.cfg.Height
	if img := li.image.Image(); img != nil {
		b := img.Bounds()
		li.image.PivotX = float64(b.Dx()) / 2
		li.image.PivotY = float64(b.Dy()) / 2
		if w == 0 || h == 0 {
			w, h = float64(b.Dx()), float64(b.Dy())
		}
	}
	li.image.SetPosition(w/2, h/2)
	li.image.SetScale(li.fitX*li.zoom, li.fitY*li.zoom)

	r := int(math.Round(li.blur))
	if r <= 0 {
		li.image.Filters = nil
		return
	}
	li.imageBlur.Radius = r
	li.image.Filters = []Filter{li.imageBlur}
}

// teardown runs when the node is disposed.
func (li *LazyImage) teardown() {
	if li.disposed {
		return
	}
	li.disposed = true
	if li.observer != nil {
		li.observer.Disconnect()
		li.observer = nil
		li.log.Debug().Msg("observation stopped: disposed")
	}
	li.pending.Dispose()
	li.pending = nil
	li.placeholderLoad.Dispose()
	li.placeholderLoad = nil
	li.tweens = nil
}

// fitScale returns the scale that stretches img over a w x h box. A zero
// box keeps the natural size.
func fitScale(img *ebiten.Image, w, h float64) (sx, sy float64) {
	b := img.Bounds()
	if w <= 0 || h <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return 1, 1
	}
	return w / float64(b.Dx()), h / float64(b.Dy())
}
