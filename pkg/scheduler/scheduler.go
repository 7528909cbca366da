package scheduler

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Trigger names the signal that asked for a recomputation.
type Trigger string

// Triggers.
const (
	TriggerInitial         Trigger = "initial"
	TriggerContainerResize Trigger = "container-resize"
	TriggerWindowResize    Trigger = "window-resize"
	TriggerScroll          Trigger = "scroll"
	TriggerFileChange      Trigger = "file-change"
	TriggerQuery           Trigger = "query"
)

// Source is anything a scheduler can listen to. Subscribe registers fn and
// returns a function that removes it again.
type Source interface {
	Subscribe(fn func(Trigger)) (unsubscribe func())
}

// Scheduler coalesces triggers into runs of one function.
//
// Every Schedule cancels the pending run, if any, and requests a fresh one
// from the clock, so a burst of triggers produces a single run carrying the
// last trigger. Runs never overlap. After Close no run starts and every
// listener is released.
//
// run must not call Close.
type Scheduler struct {
	clock  Clock
	run    func(Trigger)
	logger *log.Logger

	mu        sync.Mutex
	gen       uint64
	cancel    func()
	closed    bool
	listeners []func()
	runs      uint64
	dropped   uint64

	runMu sync.Mutex
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(s *Scheduler) { s.logger = l } }

// New creates a scheduler that runs run on clock. A nil clock means a
// one-frame [TimerClock].
func New(clock Clock, run func(Trigger), opts ...Option) *Scheduler {
	if clock == nil {
		clock = NewTimerClock(Frame)
	}
	s := &Scheduler{clock: clock, run: run}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Schedule requests a run, replacing any pending one.
func (s *Scheduler) Schedule(t Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.dropped++
	}
	s.gen++
	gen := s.gen
	s.cancel = s.clock.Request(func() { s.fire(gen, t) })
}

// RunNow drops any pending run and runs immediately on the calling
// goroutine. It reports whether the run happened.
func (s *Scheduler) RunNow(t Trigger) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.dropPending()
	gen := s.gen
	s.mu.Unlock()
	return s.fire(gen, t)
}

func (s *Scheduler) fire(gen uint64, t Trigger) bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.cancel = nil
	s.runs++
	n := s.runs
	s.mu.Unlock()

	s.logger.Debug("run", "trigger", t, "n", n)
	s.run(t)
	return true
}

// dropPending must be called with mu held.
func (s *Scheduler) dropPending() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.dropped++
	}
	s.gen++
}

// Listen subscribes the scheduler to src. Each signal schedules a run.
// Listening on a closed scheduler is a no-op.
func (s *Scheduler) Listen(src Source) {
	unsubscribe := src.Subscribe(s.Schedule)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.listeners = append(s.listeners, unsubscribe)
	s.mu.Unlock()
}

// Close cancels the pending run, releases all listeners and waits for a
// run in progress to return. Close is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.dropPending()
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	for _, unsubscribe := range listeners {
		unsubscribe()
	}

	// Wait out a run in progress.
	s.runMu.Lock()
	s.runMu.Unlock()
	s.logger.Debug("scheduler closed", "runs", s.Runs())
}

// Closed reports whether Close was called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Runs returns how many runs have started.
func (s *Scheduler) Runs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Dropped returns how many pending runs were replaced or cancelled.
func (s *Scheduler) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Signal is a minimal [Source] that fans a trigger out to its subscribers.
type Signal struct {
	trigger Trigger

	mu   sync.Mutex
	next uint64
	subs map[uint64]func(Trigger)
}

// NewSignal returns a signal that emits t.
func NewSignal(t Trigger) *Signal {
	return &Signal{trigger: t, subs: make(map[uint64]func(Trigger))}
}

// Subscribe implements [Source].
func (s *Signal) Subscribe(fn func(Trigger)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Emit notifies every subscriber.
func (s *Signal) Emit() {
	s.mu.Lock()
	fns := make([]func(Trigger), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(s.trigger)
	}
}

// Listeners returns the number of current subscribers.
func (s *Signal) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
