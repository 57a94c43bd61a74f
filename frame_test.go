package snippets

import "testing"

func TestRequestFrameRunsNextStep(t *testing.T) {
	s := NewScene()
	ran := 0
	s.RequestFrame(func() { ran++ })
	if ran != 0 {
		t.Fatal("callback should not run synchronously")
	}
	if s.PendingFrames() != 1 {
		t.Errorf("PendingFrames = %d, want 1", s.PendingFrames())
	}
	s.Step(1.0 / 60)
	s.Step(1.0 / 60)
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
}

func TestRequestFrameFromCallbackWaitsAFrame(t *testing.T) {
	s := NewScene()
	var frames []uint64
	var tick func()
	tick = func() {
		frames = append(frames, s.frame)
		if len(frames) < 3 {
			s.RequestFrame(tick)
		}
	}
	s.RequestFrame(tick)
	for range 5 {
		s.Step(1.0 / 60)
	}
	want := []uint64{1, 2, 3}
	if len(frames) != len(want) {
		t.Fatalf("frames = %v, want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frames[%d] = %d, want %d", i, frames[i], want[i])
		}
	}
	if s.FrameRequests() != 3 {
		t.Errorf("FrameRequests = %d, want 3", s.FrameRequests())
	}
}

func TestRequestFrameCancel(t *testing.T) {
	s := NewScene()
	ran := false
	sub := s.RequestFrame(func() { ran = true })
	sub.Dispose()
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
	s.Step(1.0 / 60)
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestRequestFrameCancelledWithinBatch(t *testing.T) {
	s := NewScene()
	var second *Subscription
	secondRan := false
	s.RequestFrame(func() { second.Dispose() })
	second = s.RequestFrame(func() { secondRan = true })
	s.Step(1.0 / 60)
	if secondRan {
		t.Error("callback disposed earlier in the same batch should be skipped")
	}
}

// --- pollSurface ---

func TestPollSurfaceImmediate(t *testing.T) {
	s := NewScene()
	var got Scrollable
	pollSurface(s, func() Scrollable { return s.Window() }, func(sf Scrollable) { got = sf }, 0, nil)
	if got != s.Window() {
		t.Error("probe returning a surface at once should resolve synchronously")
	}
	if s.FrameRequests() != 0 {
		t.Errorf("FrameRequests = %d, want 0", s.FrameRequests())
	}
}

func TestPollSurfaceResolvesOnFourthTry(t *testing.T) {
	s := NewScene()
	panel := s.NewSurface("panel", Rect{Width: 100, Height: 100})
	tries := 0
	var got Scrollable
	pollSurface(s, func() Scrollable {
		tries++
		if tries < 4 {
			return nil
		}
		return panel
	}, func(sf Scrollable) { got = sf }, 0, nil)

	for i := 0; i < 3; i++ {
		if got != nil {
			t.Fatalf("resolved early after %d tries", tries)
		}
		s.Step(1.0 / 60)
	}
	if got != panel {
		t.Fatalf("got = %v, want panel after %d tries", got, tries)
	}
	if s.FrameRequests() != 3 {
		t.Errorf("FrameRequests = %d, want 3", s.FrameRequests())
	}

	for range 5 {
		s.Step(1.0 / 60)
	}
	if tries != 4 {
		t.Errorf("probe ran %d times after resolution, want 4 total", tries)
	}
	if s.FrameRequests() != 3 {
		t.Errorf("FrameRequests grew to %d after resolution", s.FrameRequests())
	}
}

func TestPollSurfaceMaxFrames(t *testing.T) {
	s := NewScene()
	tries := 0
	gaveUp := 0
	pollSurface(s, func() Scrollable {
		tries++
		return nil
	}, func(Scrollable) { t.Error("found should not be called") }, 2, func() { gaveUp++ })

	for range 10 {
		s.Step(1.0 / 60)
	}
	if tries != 3 {
		t.Errorf("tries = %d, want 3 (immediate + 2 frames)", tries)
	}
	if gaveUp != 1 {
		t.Errorf("gaveUp = %d, want 1", gaveUp)
	}
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
}

func TestPollSurfaceCancel(t *testing.T) {
	s := NewScene()
	tries := 0
	sub := pollSurface(s, func() Scrollable {
		tries++
		return nil
	}, func(Scrollable) {}, 0, nil)
	s.Step(1.0 / 60)
	sub.Dispose()

	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
	for range 3 {
		s.Step(1.0 / 60)
	}
	if tries != 2 {
		t.Errorf("tries = %d, want 2", tries)
	}
}
