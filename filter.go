package snippets

import (
	"image"
	"math/bits"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a visual effect applied to a sprite's image before it is drawn.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source so the
	// effect is not clipped. Zero means no padding.
	Padding() int
}

// BlurFilter applies a Kawase blur using halving downscale passes and
// bilinear upscale passes. Placeholders use it to soften low-resolution
// previews.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius in pixels.
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Passes returns how many halving passes Apply runs: ceil(log2(Radius)),
// at least one. A zero radius copies without blurring.
func (f *BlurFilter) Passes() int {
	if f.Radius <= 0 {
		return 0
	}
	return max(1, bits.Len(uint(f.Radius-1)))
}

// Apply renders a blurred copy of src into dst by shrinking it by half
// Passes times and stretching it back up.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	passes := f.Passes()
	if passes == 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.ColorScale.Reset()
		f.imgOp.Filter = ebiten.FilterNearest
		dst.DrawImage(src, &f.imgOp)
		return
	}
	f.resizeTemps(src.Bounds().Size(), passes)

	current := src
	for _, t := range f.temps {
		t.Clear()
		scaleInto(&f.imgOp, current, t)
		current = t
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		scaleInto(&f.imgOp, current, f.temps[i])
		current = f.temps[i]
	}
	scaleInto(&f.imgOp, current, dst)
}

// resizeTemps keeps one scratch image per pass, each half the size of the
// one before, reallocating only those whose size changed.
func (f *BlurFilter) resizeTemps(size image.Point, passes int) {
	keep := min(passes, len(f.temps))
	for _, t := range f.temps[keep:] {
		t.Deallocate()
	}
	clear(f.temps[keep:])
	f.temps = slices.Grow(f.temps[:keep], passes-keep)[:passes]
	for i, t := range f.temps {
		size = image.Pt(max(size.X/2, 1), max(size.Y/2, 1))
		if t != nil && t.Bounds().Size() == size {
			continue
		}
		if t != nil {
			t.Deallocate()
		}
		f.temps[i] = ebiten.NewImage(size.X, size.Y)
	}
}

// Padding returns the blur radius.
func (f *BlurFilter) Padding() int { return f.Radius }

// scaleInto draws src stretched over dst with bilinear filtering.
func scaleInto(op *ebiten.DrawImageOptions, src, dst *ebiten.Image) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

func filterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// applyFilters runs a filter chain on src, alternating between src and one
// pooled scratch image. It returns the image holding the result and the
// scratch image the caller must release.
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool) (result, scratch *ebiten.Image) {
	if len(filters) == 0 {
		return src, nil
	}
	b := src.Bounds()
	scratch = pool.Acquire(b.Dx(), b.Dy())
	current, other := src, scratch
	for i, f := range filters {
		if i > 0 {
			other.Clear()
		}
		f.Apply(current, other)
		current, other = other, current
	}
	return current, scratch
}

// renderTexturePool recycles offscreen images by power-of-two size.
type renderTexturePool struct {
	free map[image.Point][]*ebiten.Image
}

// Acquire returns a cleared image of at least w x h, with both sides
// rounded up to a power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	size := image.Pt(nextPowerOfTwo(w), nextPowerOfTwo(h))
	if stack := p.free[size]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.free[size] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rectangle{Max: size}, &ebiten.NewImageOptions{Unmanaged: true})
}

// Release hands img back for reuse. Nil is ignored.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if p.free == nil {
		p.free = make(map[image.Point][]*ebiten.Image)
	}
	size := img.Bounds().Size()
	p.free[size] = append(p.free[size], img)
}

// nextPowerOfTwo returns the smallest power of two >= n, at least 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
