package snippets

import "testing"

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"inside", Rect{X: 10, Y: 10, Width: 10, Height: 10}, true},
		{"shared edge", Rect{X: 100, Y: 0, Width: 10, Height: 10}, true},
		{"left of", Rect{X: -20, Y: 0, Width: 10, Height: 10}, false},
		{"below", Rect{X: 0, Y: 101, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 60, Y: 80, Width: 100, Height: 100}
	want := Rect{X: 60, Y: 80, Width: 40, Height: 20}
	if got := a.Intersection(b); got != want {
		t.Errorf("Intersection = %+v, want %+v", got, want)
	}
	if got := a.Intersection(Rect{X: 200, Y: 200, Width: 1, Height: 1}); got != (Rect{}) {
		t.Errorf("disjoint Intersection = %+v, want zero", got)
	}
}

func TestRectExpand(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}
	got := r.Expand(5, 10, 15, 20)
	want := Rect{X: -10, Y: 5, Width: 130, Height: 70}
	if got != want {
		t.Errorf("Expand = %+v, want %+v", got, want)
	}

	shrunk := r.Expand(-100, 0, -100, 0)
	if shrunk.Height != 0 {
		t.Errorf("over-shrunk Height = %v, want 0", shrunk.Height)
	}
	if !shrunk.Empty() {
		t.Error("over-shrunk rect should be empty")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(10, 10) {
		t.Error("edge point should be contained")
	}
	if r.Contains(10.5, 5) {
		t.Error("outside point should not be contained")
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {3, 1}} {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
