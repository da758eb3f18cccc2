package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRejected is used when a future is rejected without a reason
var ErrRejected = errors.New("future rejected")

type state int

const (
	pending state = iota
	resolved
	rejected
)

// Future is the read side of an asynchronous result.
// Callbacks registered with Then always run on the loop, never synchronously.
type Future[T any] struct {
	loop *Loop

	mu        sync.Mutex
	state     state
	value     T
	err       error
	callbacks []func()
}

// Deferred is the write side of a Future
type Deferred[T any] struct {
	future *Future[T]
}

// NewDeferred creates an unsettled future bound to loop
func NewDeferred[T any](loop *Loop) *Deferred[T] {
	return &Deferred[T]{future: &Future[T]{loop: loop}}
}

// Future returns the read side
func (d *Deferred[T]) Future() *Future[T] {
	return d.future
}

// Resolve settles the future with v. It returns false if it was already settled.
func (d *Deferred[T]) Resolve(v T) bool {
	return d.future.settle(resolved, v, nil)
}

// Reject settles the future with err. It returns false if it was already settled.
func (d *Deferred[T]) Reject(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	var zero T
	return d.future.settle(rejected, zero, err)
}

func (f *Future[T]) settle(s state, v T, err error) bool {
	f.mu.Lock()
	if f.state != pending {
		f.mu.Unlock()
		return false
	}
	f.state = s
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		f.loop.Post(cb)
	}
	return true
}

// Then registers continuations for the outcome. Either may be nil.
func (f *Future[T]) Then(onOK func(T), onErr func(error)) {
	cb := func() {
		f.mu.Lock()
		s, v, err := f.state, f.value, f.err
		f.mu.Unlock()
		switch s {
		case resolved:
			if onOK != nil {
				onOK(v)
			}
		case rejected:
			if onErr != nil {
				onErr(err)
			}
		}
	}

	f.mu.Lock()
	if f.state == pending {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.loop.Post(cb)
}

// Settled reports whether the future has a value or an error
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != pending
}

// Result returns the outcome if settled. ok is false while pending.
func (f *Future[T]) Result() (value T, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.state != pending
}

// Loop returns the loop continuations are posted to
func (f *Future[T]) Loop() *Loop {
	return f.loop
}

// Resolved returns a future already holding v
func Resolved[T any](loop *Loop, v T) *Future[T] {
	d := NewDeferred[T](loop)
	d.Resolve(v)
	return d.Future()
}

// Rejected returns a future already holding err
func Rejected[T any](loop *Loop, err error) *Future[T] {
	d := NewDeferred[T](loop)
	d.Reject(err)
	return d.Future()
}

// Go runs fn on its own goroutine and settles the returned future with its result.
// A panic in fn rejects the future.
func Go[T any](ctx context.Context, loop *Loop, fn func(context.Context) (T, error)) *Future[T] {
	d := NewDeferred[T](loop)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Reject(fmt.Errorf("panic: %v", r))
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(v)
	}()
	return d.Future()
}

// Map transforms a resolved value; rejections pass through
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	d := NewDeferred[U](f.loop)
	f.Then(func(v T) {
		d.Resolve(fn(v))
	}, func(err error) {
		d.Reject(err)
	})
	return d.Future()
}

// Chain feeds a resolved value into fn and follows the future it returns
func Chain[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	d := NewDeferred[U](f.loop)
	f.Then(func(v T) {
		next := fn(v)
		if next == nil {
			d.Reject(errors.New("chain: nil future"))
			return
		}
		next.Then(func(u U) { d.Resolve(u) }, func(err error) { d.Reject(err) })
	}, func(err error) {
		d.Reject(err)
	})
	return d.Future()
}

// Discard maps any future to a struct{} future
func Discard[T any](f *Future[T]) *Future[struct{}] {
	return Map(f, func(T) struct{} { return struct{}{} })
}

// Await blocks until the future settles or ctx is done. It is meant for
// command line paths without a UI loop and flushes the loop while waiting.
func Await[T any](ctx context.Context, f *Future[T]) (T, error) {
	f.Then(nil, nil)
	for {
		f.loop.Flush()
		if v, err, ok := f.Result(); ok {
			return v, err
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-f.loop.wake:
		}
	}
}
