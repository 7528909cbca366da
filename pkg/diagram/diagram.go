// Package diagram ties a card surface, the connector engine and a frame
// scheduler into one render-only component.
//
// A [Diagram] lays out the window of its root member, computes connectors
// once synchronously on [Diagram.Mount] and then recomputes whenever the
// container is resized, the window is resized or the container scrolls.
// Bursts of such signals are coalesced into one pass. [Diagram.Close]
// cancels pending passes and drops every listener.
package diagram

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/scheduler"
	"github.com/matzehuels/famtree/pkg/surface"
)

// Viewport is the rendering surface a diagram draws on.
// [*surface.Surface] implements it.
type Viewport interface {
	geometry.Surface
	Relayout(root *family.Member)
	Resize(w, h float64)
	ScrollTo(x, y float64) geometry.Point
	Find(memberID string) (surface.Card, bool)
}

// NavigateFunc is called when a card with a navigation target is clicked.
type NavigateFunc func(m *family.Member, target string)

// UpdateFunc is called after every pass with the fresh result.
type UpdateFunc func(t scheduler.Trigger, res geometry.Result)

// Diagram is a mounted family diagram.
type Diagram struct {
	view     Viewport
	engine   *geometry.Engine
	sched    *scheduler.Scheduler
	logger   *log.Logger
	navigate NavigateFunc

	containerResize *scheduler.Signal
	windowResize    *scheduler.Signal
	scroll          *scheduler.Signal

	mu       sync.RWMutex
	root     *family.Member
	style    connector.Config
	result   geometry.Result
	onUpdate UpdateFunc
	mounted  bool
}

type settings struct {
	clock     scheduler.Clock
	logger    *log.Logger
	navigate  NavigateFunc
	onUpdate  UpdateFunc
	prober    geometry.ColorProber
	proberSet bool
}

// Option configures a [Diagram].
type Option func(*settings)

// WithClock sets the clock used to coalesce signals. The default is a
// one-frame timer.
func WithClock(c scheduler.Clock) Option { return func(s *settings) { s.clock = c } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(s *settings) { s.logger = l } }

// WithNavigate sets the click handler.
func WithNavigate(fn NavigateFunc) Option { return func(s *settings) { s.navigate = fn } }

// WithOnUpdate sets the update callback.
func WithOnUpdate(fn UpdateFunc) Option { return func(s *settings) { s.onUpdate = fn } }

// WithProber overrides color probing. By default the viewport probes colors
// when it implements [geometry.ColorProber]. A nil prober disables probing
// and every line inherits the current color.
func WithProber(p geometry.ColorProber) Option {
	return func(s *settings) { s.prober, s.proberSet = p, true }
}

// New creates an unmounted diagram of root drawn with cfg on view.
func New(root *family.Member, cfg connector.Config, view Viewport, opts ...Option) *Diagram {
	var st settings
	for _, opt := range opts {
		opt(&st)
	}
	if st.logger == nil {
		st.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if !st.proberSet {
		st.prober, _ = view.(geometry.ColorProber)
	}

	engineOpts := []geometry.Option{geometry.WithLogger(st.logger)}
	if st.prober != nil {
		engineOpts = append(engineOpts, geometry.WithProber(st.prober))
	}

	d := &Diagram{
		view:            view,
		engine:          geometry.NewEngine(cfg, engineOpts...),
		logger:          st.logger,
		navigate:        st.navigate,
		containerResize: scheduler.NewSignal(scheduler.TriggerContainerResize),
		windowResize:    scheduler.NewSignal(scheduler.TriggerWindowResize),
		scroll:          scheduler.NewSignal(scheduler.TriggerScroll),
		root:            root,
		style:           cfg,
		onUpdate:        st.onUpdate,
	}
	d.sched = scheduler.New(st.clock, d.recompute, scheduler.WithLogger(st.logger))
	return d
}

// Mount lays out the cards, computes the first result synchronously and
// starts listening for resize and scroll signals. Mounting twice, or after
// Close, does nothing.
func (d *Diagram) Mount() {
	d.mu.Lock()
	if d.mounted || d.sched.Closed() {
		d.mu.Unlock()
		return
	}
	d.mounted = true
	root := d.root
	d.mu.Unlock()

	d.view.Relayout(root)
	d.sched.Listen(d.containerResize)
	d.sched.Listen(d.windowResize)
	d.sched.Listen(d.scroll)
	d.sched.RunNow(scheduler.TriggerInitial)
}

// Resize changes the container size and schedules a pass.
func (d *Diagram) Resize(w, h float64) {
	d.view.Resize(w, h)
	d.containerResize.Emit()
}

// ResizeWindow handles a window resize. The container follows the window.
func (d *Diagram) ResizeWindow(w, h float64) {
	d.view.Resize(w, h)
	d.windowResize.Emit()
}

// Scroll moves the container and schedules a pass.
func (d *Diagram) Scroll(x, y float64) {
	d.view.ScrollTo(x, y)
	d.scroll.Emit()
}

// SetRoot swaps the tree, lays it out and recomputes synchronously.
func (d *Diagram) SetRoot(root *family.Member) {
	d.mu.Lock()
	d.root = root
	mounted := d.mounted
	d.mu.Unlock()
	if !mounted {
		return
	}
	d.view.Relayout(root)
	d.sched.RunNow(scheduler.TriggerInitial)
}

// SetStyle swaps the connector style and schedules a pass.
func (d *Diagram) SetStyle(cfg connector.Config) {
	d.mu.Lock()
	d.style = cfg
	d.mu.Unlock()
	d.sched.Schedule(scheduler.TriggerInitial)
}

// Result returns the segments of the last pass.
func (d *Diagram) Result() geometry.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.result
}

// OnUpdate replaces the update callback.
func (d *Diagram) OnUpdate(fn UpdateFunc) {
	d.mu.Lock()
	d.onUpdate = fn
	d.mu.Unlock()
}

// Passes returns how many passes ran.
func (d *Diagram) Passes() uint64 { return d.sched.Runs() }

// Click handles a click on a member's card. The navigation callback fires
// only when the card exists, has a target and a callback is set.
func (d *Diagram) Click(memberID string) bool {
	if d.navigate == nil {
		return false
	}
	c, ok := d.view.Find(memberID)
	if !ok || c.Target == "" {
		return false
	}
	d.navigate(c.Member, c.Target)
	return true
}

// Close cancels pending passes and releases all listeners. No callback
// fires after Close returns.
func (d *Diagram) Close() {
	d.sched.Close()
}

func (d *Diagram) recompute(t scheduler.Trigger) {
	d.mu.RLock()
	root, style := d.root, d.style
	d.mu.RUnlock()

	d.engine.SetStyle(style)
	res := d.engine.Compute(root, d.view)

	d.mu.Lock()
	d.result = res
	fn := d.onUpdate
	d.mu.Unlock()

	d.logger.Debug("diagram updated", "trigger", t, "segments", len(res.Segments))
	if fn != nil {
		fn(t, res)
	}
}
