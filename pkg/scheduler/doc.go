// Package scheduler coalesces bursts of signals into single runs.
//
// A [Scheduler] wraps one function. Resize, scroll and similar signals call
// [Scheduler.Schedule]; each call cancels the pending run and requests a
// new one from a [Clock], so at most one run is ever pending and a storm of
// signals costs one recomputation. [TimerClock] approximates "before the
// next frame" with a trailing timer; [ManualClock] hands control to tests.
//
// Timer callbacks run on their own goroutines, so the scheduler guards its
// state with a mutex and tags each request with a generation number. A
// callback whose generation is no longer current does nothing, which covers
// the window where a timer fired just before it was stopped.
package scheduler
