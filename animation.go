package snippets

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the constructors below and call Update(dt) each frame. The group writes
// values back and marks the target node dirty. If the target node is
// disposed, the group stops immediately.
//
// There is no global animation manager; owners call Update themselves,
// usually from a node's OnUpdate.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	ends   [4]float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. If the target node has been disposed, Done is set and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if finished {
			*g.fields[i] = g.ends[i]
			continue
		}
		*g.fields[i] = float64(val)
		allDone = false
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Finish jumps every field to its end value.
func (g *TweenGroup) Finish() {
	if g.Done {
		return
	}
	for i := 0; i < g.count; i++ {
		*g.fields[i] = g.ends[i]
	}
	g.Done = true
	if g.target != nil && !g.target.IsDisposed() {
		g.target.MarkDirty()
	}
}

// TweenScale animates node.ScaleX and node.ScaleY to the given values.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(node.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &node.ScaleX
	g.fields[1] = &node.ScaleY
	g.ends[0], g.ends[1] = toSX, toSY
	return g
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.fields[0] = &node.Alpha
	g.ends[0] = to
	return g
}

// TweenValue animates an arbitrary field owned by node, such as a blur
// radius or a zoom factor that is applied to the node each frame.
func TweenValue(node *Node, field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	g.ends[0] = to
	return g
}

// tweenSet is a list of running groups owned by one snippet.
type tweenSet []*TweenGroup

// update advances every group and drops the finished ones.
func (ts *tweenSet) update(dt float32) {
	kept := (*ts)[:0]
	for _, g := range *ts {
		g.Update(dt)
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(*ts); i++ {
		(*ts)[i] = nil
	}
	*ts = kept
}

// finish completes every group immediately.
func (ts *tweenSet) finish() {
	for _, g := range *ts {
		g.Finish()
	}
	*ts = (*ts)[:0]
}
