// Package debounce delays work until a quiet period has passed since the
// last trigger.
package debounce

import (
  "sync"
  "time"
)

// DefaultDelay is used when a non-positive delay is given.
const DefaultDelay = time.Second

// Func wraps fn so that a burst of calls results in one invocation with the
// argument of the last call.
type Func[T any] struct {
  mu      sync.Mutex
  fn      func(T)
  delay   time.Duration
  timer   *time.Timer
  stopped bool
}

func NewFunc[T any](fn func(T), delay time.Duration) *Func[T] {
  if delay <= 0 {
    delay = DefaultDelay
  }
  return &Func[T]{fn: fn, delay: delay}
}

// Call schedules fn(arg) after the delay, canceling any pending invocation.
// Calls after Stop are ignored.
func (d *Func[T]) Call(arg T) {
  d.mu.Lock()
  defer d.mu.Unlock()

  if d.stopped {
    return
  }
  if d.timer != nil {
    d.timer.Stop()
  }

  var t *time.Timer
  t = time.AfterFunc(d.delay, func() {
    d.mu.Lock()
    if d.stopped || d.timer != t {
      d.mu.Unlock()
      return
    }
    d.timer = nil
    d.mu.Unlock()

    d.fn(arg)
  })
  d.timer = t
}

// Pending reports whether an invocation is scheduled.
func (d *Func[T]) Pending() bool {
  d.mu.Lock()
  defer d.mu.Unlock()
  return d.timer != nil
}

// Stop cancels any pending invocation and disables further calls.
func (d *Func[T]) Stop() {
  d.mu.Lock()
  defer d.mu.Unlock()

  d.stopped = true
  if d.timer != nil {
    d.timer.Stop()
    d.timer = nil
  }
}

// Value holds a value that only settles once it has stopped changing for
// the delay.
type Value[T any] struct {
  mu      sync.RWMutex
  settled T
  f       *Func[T]
}

// NewValue returns a Value starting at initial. onSettle, if not nil, runs
// after each settle with the new value.
func NewValue[T any](initial T, delay time.Duration, onSettle func(T)) *Value[T] {
  v := &Value[T]{settled: initial}
  v.f = NewFunc(func(x T) {
    v.mu.Lock()
    v.settled = x
    v.mu.Unlock()

    if onSettle != nil {
      onSettle(x)
    }
  }, delay)
  return v
}

func (v *Value[T]) Set(x T) {
  v.f.Call(x)
}

// Get returns the last settled value.
func (v *Value[T]) Get() T {
  v.mu.RLock()
  defer v.mu.RUnlock()
  return v.settled
}

func (v *Value[T]) Stop() {
  v.f.Stop()
}
