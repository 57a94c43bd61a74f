package snippets

// Subscription is a handle to a registered listener, observer or frame
// request. Dispose releases the registration exactly once; later calls and
// calls on a nil *Subscription are no-ops.
type Subscription struct {
	release func()
}

// NewSubscription returns a handle whose first Dispose runs release.
func NewSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Dispose releases the registration.
func (s *Subscription) Dispose() {
	if s == nil || s.release == nil {
		return
	}
	release := s.release
	s.release = nil
	release()
}

// Active reports whether the subscription has not been disposed yet.
func (s *Subscription) Active() bool {
	return s != nil && s.release != nil
}

// listenerSet holds callbacks keyed by registration id so a subscription can
// remove exactly its own entry.
type listenerSet[F any] struct {
	entries []listenerEntry[F]
	nextID  uint32
}

type listenerEntry[F any] struct {
	id uint32
	fn F
}

// add registers fn and returns the subscription that removes it.
func (l *listenerSet[F]) add(fn F) *Subscription {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[F]{id: id, fn: fn})
	return NewSubscription(func() { l.remove(id) })
}

func (l *listenerSet[F]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = listenerEntry[F]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

// snapshot returns the current callbacks. Listeners added or removed while
// the snapshot is being iterated take effect on the next dispatch.
func (l *listenerSet[F]) snapshot() []F {
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]F, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

func (l *listenerSet[F]) count() int {
	return len(l.entries)
}
