package snippets

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenScaleReachesTarget(t *testing.T) {
	node := NewContainer("scale")
	g := TweenScale(node, 2.0, 3.0, 0.5, ease.Linear)

	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if node.ScaleX != 2 || node.ScaleY != 3 {
		t.Errorf("Scale = (%v, %v), want exactly (2, 3)", node.ScaleX, node.ScaleY)
	}
}

func TestTweenAlphaInterpolates(t *testing.T) {
	node := NewContainer("alpha")
	node.Alpha = 0
	g := TweenAlpha(node, 1, 1.0, ease.Linear)

	g.Update(0.5)
	if math.Abs(node.Alpha-0.5) > 0.01 {
		t.Errorf("Alpha at midpoint = %v, want ~0.5", node.Alpha)
	}
	if g.Done {
		t.Error("should not be Done at midpoint")
	}
	g.Update(0.5)
	if !g.Done || node.Alpha != 1 {
		t.Errorf("Alpha = %v Done = %v, want 1 and true", node.Alpha, g.Done)
	}
}

func TestTweenValueWritesField(t *testing.T) {
	node := NewContainer("owner")
	blur := 12.0
	g := TweenValue(node, &blur, 0, 0.4, ease.OutCubic)
	g.Update(0.2)
	if blur <= 0 || blur >= 12 {
		t.Errorf("blur mid-tween = %v, want inside (0, 12)", blur)
	}
	g.Update(0.2)
	if blur != 0 {
		t.Errorf("blur = %v, want exactly 0", blur)
	}
}

func TestTweenGroupFinish(t *testing.T) {
	node := NewContainer("finish")
	node.Alpha = 0
	g := TweenAlpha(node, 1, 10, ease.Linear)
	g.Update(0.1)
	g.Finish()
	if !g.Done || node.Alpha != 1 {
		t.Errorf("after Finish Alpha = %v Done = %v", node.Alpha, g.Done)
	}
	g.Update(1)
	if node.Alpha != 1 {
		t.Error("Update after Finish should be a no-op")
	}
}

func TestTweenGroupMarksDirty(t *testing.T) {
	node := NewContainer("dirty")
	node.transformDirty = false
	g := TweenAlpha(node, 0, 1.0, ease.Linear)
	g.Update(0.1)
	if !node.transformDirty {
		t.Fatal("expected node to be marked dirty after TweenGroup update")
	}
}

func TestTweenGroupDisposedNode(t *testing.T) {
	node := NewContainer("disposed")
	g := TweenScale(node, 4, 4, 1.0, ease.Linear)
	g.Update(0.1)
	node.Dispose()
	sx := node.ScaleX

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after node disposed mid-animation")
	}
	if node.ScaleX != sx {
		t.Error("node fields should not change after disposal")
	}
}

func TestTweenSet(t *testing.T) {
	node := NewContainer("set")
	node.Alpha = 0
	var ts tweenSet
	ts = append(ts,
		TweenAlpha(node, 1, 0.2, ease.Linear),
		TweenScale(node, 2, 2, 0.4, ease.Linear),
	)

	ts.update(0.2)
	if len(ts) != 1 {
		t.Fatalf("len = %d after the short tween ended, want 1", len(ts))
	}
	ts.finish()
	if len(ts) != 0 {
		t.Errorf("len = %d after finish, want 0", len(ts))
	}
	if node.Alpha != 1 || node.ScaleX != 2 {
		t.Errorf("finish should land every field: Alpha %v ScaleX %v", node.Alpha, node.ScaleX)
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	a := NewContainer("linear")
	b := NewContainer("cubic")
	gL := TweenAlpha(a, 0, 1.0, ease.Linear)
	gC := TweenAlpha(b, 0, 1.0, ease.OutCubic)

	gL.Update(0.5)
	gC.Update(0.5)
	if math.Abs(a.Alpha-b.Alpha) < 0.1 {
		t.Errorf("easing curves should differ at midpoint: linear=%f cubic=%f", a.Alpha, b.Alpha)
	}
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	node := NewContainer("alloc")
	g := TweenScale(node, 100, 100, 1.0, ease.Linear)
	g.Update(0.01)

	result := testing.AllocsPerRun(100, func() {
		g.Update(0.001)
	})
	if result > 0 {
		t.Errorf("TweenGroup.Update allocated %f times per run, want 0", result)
	}
}
