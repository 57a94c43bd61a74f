package snippets

import "testing"

func TestSurfaceClamp(t *testing.T) {
	sf := newSurface("s", Rect{Width: 100, Height: 200})
	sf.SetContentHeight(1000)

	tests := []struct {
		name string
		top  float64
		want float64
	}{
		{"negative", -50, 0},
		{"inside", 300, 300},
		{"past end", 5000, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf.SetScrollTop(tt.top)
			if got := sf.ScrollTop(); got != tt.want {
				t.Errorf("ScrollTop = %v, want %v", got, tt.want)
			}
			if sf.Content().Y != -tt.want {
				t.Errorf("content.Y = %v, want %v", sf.Content().Y, -tt.want)
			}
		})
	}
}

func TestSurfaceUnboundedContent(t *testing.T) {
	sf := newSurface("s", Rect{Width: 100, Height: 200})
	if sf.MaxScrollTop() != -1 {
		t.Errorf("MaxScrollTop = %v, want -1", sf.MaxScrollTop())
	}
	sf.SetScrollTop(1e6)
	if sf.ScrollTop() != 1e6 {
		t.Errorf("ScrollTop = %v, want 1e6", sf.ScrollTop())
	}
}

func TestSurfaceShrinkReclamps(t *testing.T) {
	sf := newSurface("s", Rect{Width: 100, Height: 200})
	sf.SetContentHeight(1000)
	sf.SetScrollTop(800)
	sf.SetContentHeight(500)
	if sf.ScrollTop() != 300 {
		t.Errorf("ScrollTop = %v, want 300", sf.ScrollTop())
	}
}

func TestSurfaceOneEventPerFrame(t *testing.T) {
	s := NewScene()
	w := s.Window()
	var events []ScrollEvent
	w.OnScroll(func(e ScrollEvent) { events = append(events, e) })

	w.SetScrollTop(100)
	w.SetScrollTop(150)
	w.SetScrollTop(300)
	if len(events) != 0 {
		t.Fatal("events should be dispatched by Step, not by SetScrollTop")
	}

	s.Step(1.0 / 60)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Top != 300 || events[0].Delta != 300 {
		t.Errorf("event = %+v, want Top 300 Delta 300", events[0])
	}
	if events[0].Target != Scrollable(w) {
		t.Error("event Target should be the window")
	}

	s.Step(1.0 / 60)
	if len(events) != 1 {
		t.Errorf("no offset change should dispatch nothing, got %d events", len(events))
	}
}

func TestSurfaceNoEventWhenOffsetReturns(t *testing.T) {
	s := NewScene()
	w := s.Window()
	calls := 0
	w.OnScroll(func(ScrollEvent) { calls++ })
	w.SetScrollTop(100)
	w.SetScrollTop(0)
	s.Step(1.0 / 60)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestSurfaceListenerDispose(t *testing.T) {
	s := NewScene()
	w := s.Window()
	calls := 0
	sub := w.OnScroll(func(ScrollEvent) { calls++ })
	if w.Listeners() != 1 {
		t.Errorf("Listeners = %d, want 1", w.Listeners())
	}
	sub.Dispose()
	if w.Listeners() != 0 {
		t.Errorf("Listeners = %d, want 0", w.Listeners())
	}
	w.SetScrollTop(50)
	s.Step(1.0 / 60)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestSurfaceSmoothScroll(t *testing.T) {
	s := NewScene()
	w := s.Window()
	w.SetScrollTop(600)
	s.Step(1.0 / 60)

	var tops []float64
	w.OnScroll(func(e ScrollEvent) { tops = append(tops, e.Top) })
	w.ScrollTo(ScrollToOptions{Top: 0, Behavior: ScrollSmooth, Duration: 0.2})
	if !w.Scrolling() {
		t.Fatal("smooth ScrollTo should start an animation")
	}

	for i := 0; i < 30 && w.Scrolling(); i++ {
		s.Step(1.0 / 60)
	}
	if w.Scrolling() {
		t.Fatal("animation should finish within its duration")
	}
	if w.ScrollTop() != 0 {
		t.Errorf("ScrollTop = %v, want 0", w.ScrollTop())
	}
	if len(tops) < 2 {
		t.Fatalf("expected several scroll events during the animation, got %d", len(tops))
	}
	for i := 1; i < len(tops); i++ {
		if tops[i] > tops[i-1] {
			t.Errorf("offset went back up: %v", tops)
			break
		}
	}
}

func TestSurfaceInstantScrollTo(t *testing.T) {
	sf := newSurface("s", Rect{Width: 100, Height: 100})
	sf.SetScrollTop(400)
	sf.ScrollTo(ScrollToOptions{Top: 10})
	if sf.Scrolling() || sf.ScrollTop() != 10 {
		t.Errorf("instant ScrollTo: Scrolling=%v ScrollTop=%v", sf.Scrolling(), sf.ScrollTop())
	}

	sf.SmoothDuration = 0
	sf.ScrollTo(ScrollToOptions{Top: 0, Behavior: ScrollSmooth})
	if sf.Scrolling() || sf.ScrollTop() != 0 {
		t.Error("smooth ScrollTo with zero duration should jump")
	}
}

func TestSetScrollTopCancelsAnimation(t *testing.T) {
	sf := newSurface("s", Rect{Width: 100, Height: 100})
	sf.SetScrollTop(400)
	sf.ScrollTo(ScrollToOptions{Top: 0, Behavior: ScrollSmooth})
	sf.SetScrollTop(200)
	if sf.Scrolling() {
		t.Error("SetScrollTop should cancel the smooth scroll")
	}
}

func TestNestedSurfaceRegistration(t *testing.T) {
	s := NewScene()
	panel := s.NewSurface("panel", Rect{X: 10, Y: 10, Width: 200, Height: 200})
	if len(s.Surfaces()) != 2 {
		t.Fatalf("Surfaces = %d, want 2", len(s.Surfaces()))
	}
	s.Root().AddChild(panel.Frame())
	panel.Frame().Dispose()
	if len(s.Surfaces()) != 1 {
		t.Errorf("disposing the frame should unregister the surface, got %d", len(s.Surfaces()))
	}
}
