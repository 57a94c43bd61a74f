package snippets

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Draw renders the scene to screen in tree order. Children are visited in
// ZIndex order and nodes with ClipChildren restrict their descendants to
// their world bounds. Queued screenshots are captured afterwards.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.stats.sprites = 0
		s.stats.filtered = 0
	}
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.drawNode(screen, s.base)
	s.flushScreenshots(screen)

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.debugLog()
	}
}

func (s *Scene) drawNode(dst *ebiten.Image, n *Node) {
	if !n.Visible || n.worldAlpha <= 0 {
		return
	}
	if n.Type == NodeTypeSprite && (n.image != nil || (n.Width > 0 && n.Height > 0)) {
		s.drawSprite(dst, n)
	}
	if len(n.children) == 0 {
		return
	}

	target := dst
	if n.ClipChildren {
		clip := clipRect(n.WorldBounds()).Intersect(dst.Bounds())
		if clip.Empty() {
			return
		}
		target = dst.SubImage(clip).(*ebiten.Image)
	}

	children := n.children
	if !n.childrenSorted {
		rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, c := range children {
		s.drawNode(target, c)
	}
}

// clipRect converts world bounds to the pixel rectangle they cover.
func clipRect(r Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

// drawSprite draws a sprite's image with its world transform, color and
// alpha. Sprites without an image draw WhitePixel stretched to their box.
// Sprites with filters are first rendered into a padded offscreen image
// from the pool.
func (s *Scene) drawSprite(dst *ebiten.Image, n *Node) {
	op := &s.drawOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterLinear

	src := n.image
	var pooled, scratch *ebiten.Image
	if src == nil {
		src = WhitePixel
		op.GeoM.Scale(n.Width, n.Height)
	} else if len(n.Filters) > 0 {
		pad := filterChainPadding(n.Filters)
		b := n.image.Bounds()
		w, h := b.Dx()+2*pad, b.Dy()+2*pad
		pooled = s.rtPool.Acquire(w, h)
		op.GeoM.Translate(float64(pad), float64(pad))
		pooled.DrawImage(n.image, op)
		op.GeoM.Reset()

		var result *ebiten.Image
		result, scratch = applyFilters(n.Filters, pooled, &s.rtPool)
		src = result.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
		op.GeoM.Translate(-float64(pad), -float64(pad))
		s.stats.filtered++
	}

	op.GeoM.Concat(n.world.geoM())

	// ColorScale is premultiplied.
	a := float32(n.worldAlpha * n.Color.A)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
	dst.DrawImage(src, op)
	s.stats.sprites++

	s.rtPool.Release(pooled)
	s.rtPool.Release(scratch)
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node
// with a stable insertion sort.
func rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}
