package snippets

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "wheel", "x": 400, "y": 300, "notches": -5},
			{"action": "wait", "frames": 3},
			{"action": "scroll", "top": 0},
			{"action": "click", "x": 100, "y": 200}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].Action != "wheel" || runner.steps[1].Notches != -5 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[4].X != 100 || runner.steps[4].Y != 200 {
		t.Error("step 4 mismatch")
	}
}

func TestLoadTestScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `not json`, "parse test script"},
		{"empty steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "drag"}]}`, `unknown action "drag"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRunnerStep_Click(t *testing.T) {
	s := NewScene()
	target(s, "s", 0, 0, 200, 200)
	s.refreshTransforms()

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	runner.step(s)
	if s.InjectPending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.InjectPending())
	}
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	s.processInput(false)
	s.processInput(false)

	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		runner.step(s)
		if runner.Done() {
			t.Fatalf("done too early on frame %d", i+1)
		}
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after screenshot step")
	}
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "done" {
		t.Errorf("expected screenshot 'done', got %v", s.screenshotQueue)
	}
}

func TestRunnerWheelAndScroll(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wheel", "x": 10, "y": 10, "notches": -4},
		{"action": "scroll", "x": 10, "y": 10, "top": 20}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	s.Step(1.0 / 60)
	if got, want := s.Window().ScrollTop(), 4*defaultWheelStep; got != want {
		t.Errorf("after wheel ScrollTop = %v, want %v", got, want)
	}
	s.Step(1.0 / 60)
	if got := s.Window().ScrollTop(); got != 20 {
		t.Errorf("after scroll ScrollTop = %v, want 20", got)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 50, "y": 50},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s)
	runner.step(s)
	if runner.cursor != 1 {
		t.Errorf("cursor should still be 1, got %d", runner.cursor)
	}

	s.injectQueue = s.injectQueue[:0]
	runner.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after" {
		t.Errorf("expected screenshot 'after', got %v", s.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}
