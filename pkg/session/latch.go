package session

// latch holds at most one callback for a lifecycle event and remembers
// whether the event is currently in effect. It is guarded by Manager.mu.
//
// The callback stays registered until cleared and runs once per occurrence:
// on trigger if already registered, or on register if the event has already
// happened. Methods return the function to run once the lock is released.
type latch struct {
	cb       func()
	occurred bool
}

func (l *latch) register(cb func()) func() {
	l.cb = cb
	if l.occurred {
		return cb
	}
	return nil
}

func (l *latch) clear() {
	l.cb = nil
}

func (l *latch) trigger() func() {
	l.occurred = true
	return l.cb
}

func (l *latch) reset() {
	l.occurred = false
}

func run(fns ...func()) {
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}
