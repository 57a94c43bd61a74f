package snippets

// syntheticPointerEvent is a single injected pointer or wheel event in
// screen coordinates.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	wheel            float64
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next Step.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectWheel queues a wheel movement of notches at the given screen
// coordinates. Negative notches scroll the content down, like turning the
// wheel toward the user.
func (s *Scene) InjectWheel(x, y, notches float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		wheel: notches,
	})
}

// InjectPending returns the number of queued synthetic events.
func (s *Scene) InjectPending() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the pointer state machine or the wheel handler. Returns true if
// an event was consumed, in which case real input is skipped this frame.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.wheel != 0 {
		s.scrollAt(evt.screenX, evt.screenY, evt.wheel)
		return true
	}
	s.processPointer(0, evt.screenX, evt.screenY, evt.pressed, evt.button, 0)
	return true
}
