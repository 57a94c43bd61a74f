package snippets

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// affine is a 2D affine matrix stored column-major as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine [6]float64

var identity = affine{1, 0, 0, 1, 0, 0}

// localAffine builds a node's local matrix. Points are moved by the negative
// pivot, scaled, rotated, then translated to (X, Y).
func localAffine(n *Node) affine {
	sin, cos := math.Sincos(n.Rotation)
	a, b := cos*n.ScaleX, sin*n.ScaleX
	c, d := -sin*n.ScaleY, cos*n.ScaleY
	return affine{
		a, b, c, d,
		n.X - a*n.PivotX - c*n.PivotY,
		n.Y - b*n.PivotX - d*n.PivotY,
	}
}

// mul returns m * o, applying o first.
func (m affine) mul(o affine) affine {
	return affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// inverse returns the inverse of m, or identity when m collapses an axis.
func (m affine) inverse() affine {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identity
	}
	a, b := m[3]/det, -m[1]/det
	c, d := -m[2]/det, m[0]/det
	return affine{a, b, c, d, -a*m[4] - c*m[5], -b*m[4] - d*m[5]}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// bounds returns the axis-aligned box around the w x h local rectangle.
func (m affine) bounds(w, h float64) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		x, y := m.apply(p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (m affine) geoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// propagate refreshes world matrices and alphas below n. Clean subtrees
// whose ancestors did not change are walked but not recomputed.
func propagate(n *Node, parent affine, parentAlpha float64, force bool) {
	force = force || n.transformDirty
	if force {
		n.world = parent.mul(localAffine(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		propagate(child, n.world, n.worldAlpha, force)
	}
}

// refreshTransforms brings every world matrix in the scene up to date.
func (s *Scene) refreshTransforms() {
	propagate(s.base, identity, 1, false)
}

// SetPosition moves the node within its parent.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale sets both scale factors.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetSize sets the box used for hit testing, intersection and clipping.
func (n *Node) SetSize(w, h float64) {
	n.Width, n.Height = w, h
}

// SetPivot sets the local point that scaling and rotation are centered on.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

// SetAlpha sets the opacity, inherited multiplicatively by children.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty schedules the node's world matrix and alpha for recomputation.
// Call it after writing transform fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldToLocal maps a world point into the node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.world.inverse().apply(wx, wy)
}

// LocalToWorld maps a local point into world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.world.apply(lx, ly)
}

// WorldBounds returns the node's box in world space as of the last
// transform update.
func (n *Node) WorldBounds() Rect {
	w, h := nodeDimensions(n)
	return n.world.bounds(w, h)
}
