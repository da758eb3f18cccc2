package async

import "sync"

// Loop is a single-threaded continuation queue.
// Post may be called from any goroutine; Flush must only be called from the
// goroutine that owns the view state (the bubbletea update loop in the app).
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	notify   func()
	flushing bool
	wake     chan struct{}
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// SetNotify registers a hook that is invoked whenever work is posted to an idle queue.
// The hook runs on the posting goroutine and must not block on the owner goroutine.
func (l *Loop) SetNotify(fn func()) {
	l.mu.Lock()
	l.notify = fn
	l.mu.Unlock()
}

// Post enqueues fn to run on the next Flush
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	wasIdle := len(l.queue) == 0 && !l.flushing
	l.queue = append(l.queue, fn)
	notify := l.notify
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	if wasIdle && notify != nil {
		notify()
	}
}

// Flush runs queued continuations in FIFO order, including continuations
// queued while flushing, until the queue is empty. It returns how many ran.
func (l *Loop) Flush() int {
	l.mu.Lock()
	if l.flushing {
		// re-entrant flush from inside a continuation
		l.mu.Unlock()
		return 0
	}
	l.flushing = true
	l.mu.Unlock()

	drained := false
	defer func() {
		if !drained {
			// a continuation panicked
			l.mu.Lock()
			l.flushing = false
			l.mu.Unlock()
		}
	}()

	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			// cleared with the empty check so a concurrent Post sees an idle loop
			l.flushing = false
			l.mu.Unlock()
			drained = true
			return ran
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
		ran++
	}
}

// Pending returns the number of queued continuations
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
