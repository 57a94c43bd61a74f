package snippets

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color is a straight-alpha RGBA color with components in [0, 1]. Drawing
// premultiplies it.
type Color struct {
	R, G, B, A float64
}

// ColorWhite leaves images untinted.
var ColorWhite = Color{1, 1, 1, 1}

// WhitePixel is the 1x1 image stretched over sprites that have none.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle in screen orientation: the origin is
// top-left and Y grows downward.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether (x, y) is inside r or on its edge.
func (r Rect) Contains(x, y float64) bool {
	return r.X <= x && x <= r.Right() && r.Y <= y && y <= r.Bottom()
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Intersection returns the overlap of r and o, or the zero Rect when they
// are apart. Touching rectangles give a zero-width or zero-height strip on
// the shared edge.
func (r Rect) Intersection(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Expand moves each edge outward by its amount; negative amounts move it
// inward. The size never drops below zero.
func (r Rect) Expand(top, right, bottom, left float64) Rect {
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  max(0, r.Width+left+right),
		Height: max(0, r.Height+top+bottom),
	}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders an image (WhitePixel when none is set)
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// toRGBA premultiplies c for image fills.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R) * a * 255),
		G: uint8(clamp01(c.G) * a * 255),
		B: uint8(clamp01(c.B) * a * 255),
		A: uint8(a * 255),
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
