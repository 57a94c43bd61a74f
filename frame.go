package snippets

// FrameScheduler runs callbacks at the start of the next frame. It is the
// "next tick" primitive container resolution polls with.
type FrameScheduler interface {
	RequestFrame(fn func()) *Subscription
}

// frameRequest is one pending callback. cancelled is checked right before
// the callback runs so a request disposed earlier in the same batch is skipped.
type frameRequest struct {
	fn        func()
	cancelled bool
}

// frameQueue stores requests for the next frame.
type frameQueue struct {
	pending   []*frameRequest
	requested uint64
}

func (q *frameQueue) request(fn func()) *Subscription {
	req := &frameRequest{fn: fn}
	q.pending = append(q.pending, req)
	q.requested++
	return NewSubscription(func() {
		req.cancelled = true
		q.drop(req)
	})
}

func (q *frameQueue) drop(req *frameRequest) {
	for i, r := range q.pending {
		if r == req {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = nil
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
}

// run executes the batch that was pending when the frame started. Requests
// made by those callbacks land in the next batch.
func (q *frameQueue) run() int {
	if len(q.pending) == 0 {
		return 0
	}
	batch := q.pending
	q.pending = nil
	ran := 0
	for _, req := range batch {
		if req.cancelled {
			continue
		}
		req.cancelled = true
		req.fn()
		ran++
	}
	return ran
}

// RequestFrame schedules fn to run at the start of the next Step. Disposing
// the returned subscription before then cancels it.
func (s *Scene) RequestFrame(fn func()) *Subscription {
	return s.frames.request(fn)
}

// FrameRequests returns how many frame callbacks have been requested over
// the scene's lifetime.
func (s *Scene) FrameRequests() uint64 {
	return s.frames.requested
}

// PendingFrames returns the number of callbacks waiting for the next frame.
func (s *Scene) PendingFrames() int {
	return len(s.frames.pending)
}

// pollSurface calls probe once immediately and then once per frame until it
// returns a non-nil Scrollable, which is handed to found. Polling stops after
// maxFrames scheduled attempts when maxFrames > 0, calling gaveUp. Disposing
// the returned subscription cancels any pending frame.
func pollSurface(sched FrameScheduler, probe func() Scrollable, found func(Scrollable), maxFrames int, gaveUp func()) *Subscription {
	p := &surfacePoll{sched: sched, probe: probe, found: found, maxFrames: maxFrames, gaveUp: gaveUp}
	p.tick()
	return NewSubscription(p.cancel)
}

type surfacePoll struct {
	sched     FrameScheduler
	probe     func() Scrollable
	found     func(Scrollable)
	gaveUp    func()
	maxFrames int
	frames    int
	pending   *Subscription
	stopped   bool
}

func (p *surfacePoll) tick() {
	p.pending = nil
	if p.stopped {
		return
	}
	if target := p.probe(); target != nil {
		p.stopped = true
		p.found(target)
		return
	}
	if p.maxFrames > 0 && p.frames >= p.maxFrames {
		p.stopped = true
		if p.gaveUp != nil {
			p.gaveUp()
		}
		return
	}
	p.frames++
	p.pending = p.sched.RequestFrame(p.tick)
}

func (p *surfacePoll) cancel() {
	p.stopped = true
	p.pending.Dispose()
	p.pending = nil
}
