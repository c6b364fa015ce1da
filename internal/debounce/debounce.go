// Package debounce delays a changing value until it has held steady for a
// fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Value.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler replaces the wall-clock scheduler, e.g. with a ManualClock.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// Value holds an input and its debounced output. At most one transition is
// pending at any time; a newer input cancels it.
type Value[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	input    T
	output   T
	pending  Timer
	gen      uint64
	onChange func(T)
	schedule Scheduler
}

// New returns a Value whose output starts out equal to initial. onChange,
// if not nil, runs after every published transition.
func New[T any](initial T, delay time.Duration, onChange func(T), opts ...Option) *Value[T] {
	o := options{scheduler: afterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Value[T]{
		delay:    delay,
		input:    initial,
		output:   initial,
		onChange: onChange,
		schedule: o.scheduler,
	}
}

// Set records a new input and restarts the delay.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = x
	if v.pending != nil {
		v.pending.Stop()
	}
	v.gen++
	gen := v.gen
	v.pending = v.schedule(v.delay, func() { v.fire(gen) })
}

// Input returns the latest input.
func (v *Value[T]) Input() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

// Output returns the debounced value.
func (v *Value[T]) Output() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.output
}

// Pending reports whether a transition is scheduled.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending != nil
}

// Flush publishes the pending transition now. It reports false when there
// was nothing pending.
func (v *Value[T]) Flush() bool {
	v.mu.Lock()
	if v.pending == nil {
		v.mu.Unlock()
		return false
	}
	v.pending.Stop()
	gen := v.gen
	v.mu.Unlock()
	return v.fire(gen)
}

// Stop cancels the pending transition, leaving the output unchanged.
func (v *Value[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending != nil {
		v.pending.Stop()
		v.pending = nil
	}
	v.gen++
}

func (v *Value[T]) fire(gen uint64) bool {
	v.mu.Lock()
	if gen != v.gen || v.pending == nil {
		// superseded
		v.mu.Unlock()
		return false
	}
	v.pending = nil
	v.output = v.input
	out := v.output
	cb := v.onChange
	v.mu.Unlock()

	if cb != nil {
		cb(out)
	}
	return true
}
