package geometry

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
)

// Unit names used for junction keys and segment ids.
const (
	UnitParents = "parents"
	UnitRoot    = "root"
)

// Engine computes connector geometry from measured cards.
//
// The only state kept between passes is the color cache, keyed by utility
// token. An Engine is not safe for concurrent use; the scheduler serializes
// passes.
type Engine struct {
	style  connector.Config
	prober ColorProber
	colors map[string]string
	logger *log.Logger
}

// Option configures an [Engine].
type Option func(*Engine)

// WithProber sets the color prober. Without one every stroke is
// [InheritColor].
func WithProber(p ColorProber) Option { return func(e *Engine) { e.prober = p } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine creates an engine drawing with cfg.
func NewEngine(cfg connector.Config, opts ...Option) *Engine {
	e := &Engine{
		style:  cfg,
		colors: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return e
}

// Style returns the engine's connector style.
func (e *Engine) Style() connector.Config { return e.style }

// SetStyle swaps the connector style. The color cache is dropped when the
// style actually changes.
func (e *Engine) SetStyle(cfg connector.Config) {
	if cfg == e.style {
		return
	}
	e.style = cfg
	clear(e.colors)
}

// CachedColors returns how many tokens are in the color cache.
func (e *Engine) CachedColors() int { return len(e.colors) }

// Compute measures s and emits the connectors of the window rooted at root.
// Members without a measured card are skipped; Compute never fails.
func (e *Engine) Compute(root *family.Member, s Surface) Result {
	m := Measure(s)
	res := Result{
		Size:      m.Size,
		Rects:     m.Rects,
		Junctions: make(map[string]Point),
	}
	if root == nil {
		return res
	}

	w := family.NewWindow(root)
	if len(w.Parents) > 0 {
		children := append(w.Siblings(), root)
		e.drawUnit(&res, UnitParents, w.Parents, children, m.Rects)
	}

	switch {
	case w.Spouse != nil:
		e.drawUnit(&res, UnitRoot, []*family.Member{root, w.Spouse}, w.Children, m.Rects)
	case len(w.Children) > 0:
		e.drawUnit(&res, UnitRoot, []*family.Member{root}, w.Children, m.Rects)
	}

	e.logger.Debug("computed connectors",
		"root", root.ID,
		"cards", len(m.Rects),
		"segments", len(res.Segments))
	return res
}

type measured struct {
	member *family.Member
	rect   Rect
}

// lookup resolves members to their cards. A member listed twice maps to the
// same card, so only its first occurrence is kept.
func lookup(ms []*family.Member, rects map[string]Rect) []measured {
	out := make([]measured, 0, len(ms))
	seen := make(map[string]bool, len(ms))
	for _, m := range ms {
		if m == nil || seen[m.ID] {
			continue
		}
		if r, ok := rects[m.ID]; ok {
			seen[m.ID] = true
			out = append(out, measured{member: m, rect: r})
		}
	}
	return out
}

// unitStatus is the first status set on a parent, in list order.
func unitStatus(parents []*family.Member) family.LinkStatus {
	for _, p := range parents {
		if p != nil && p.Status != "" {
			return p.Status
		}
	}
	return ""
}

func (e *Engine) drawUnit(res *Result, unit string, parents, children []*family.Member, rects map[string]Rect) {
	ps := lookup(parents, rects)
	status := unitStatus(parents)

	var junction Point
	switch {
	case len(ps) >= 2:
		slices.SortStableFunc(ps, func(a, b measured) int {
			return cmp.Compare(a.rect.Left, b.rect.Left)
		})
		left, right := ps[0].rect, ps[1].rect
		inset := e.style.Anchors.CoupleInsetPx
		// Each end sits at its own card's inner-side midpoint; cards of
		// different heights give a sloped line with the junction halfway.
		from := Point{X: left.Right() - inset, Y: left.CenterY()}
		to := Point{X: right.Left + inset, Y: right.CenterY()}
		junction = Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
		e.emit(res, unit+"/couple", KindCouple, Line(from, to), e.style.CoupleLine, status)
	case len(ps) == 1:
		junction = ps[0].rect.BottomCenter()
	default:
		return
	}
	res.Junctions[unit] = junction

	cs := lookup(children, rects)
	if len(cs) == 0 {
		return
	}

	minTop := cs[0].rect.Top
	minX, maxX := junction.X, junction.X
	for _, c := range cs {
		a := c.rect.TopCenter()
		minTop = min(minTop, a.Y)
		minX = min(minX, a.X)
		maxX = max(maxX, a.X)
	}
	busY := minTop - e.style.Anchors.VerticalGapPx

	e.emit(res, unit+"/trunk", KindTrunk, Line(junction, Point{X: junction.X, Y: busY}), e.style.Trunk, status)
	e.emit(res, unit+"/bus", KindBus, Line(Point{X: minX, Y: busY}, Point{X: maxX, Y: busY}), e.style.SiblingBus, status)
	for _, c := range cs {
		a := c.rect.TopCenter()
		id := unit + "/drop/" + c.member.ID
		e.emit(res, id, KindDrop, Line(Point{X: a.X, Y: busY}, a), e.style.Drop, c.member.Status)
	}
}

func (e *Engine) emit(res *Result, id string, kind Kind, p Path, line connector.LineStyle, status family.LinkStatus) {
	res.Segments = append(res.Segments, Segment{
		ID:     id,
		Kind:   kind,
		Path:   p,
		D:      p.String(),
		Stroke: e.ResolveStroke(line, status),
		Width:  ParseThickness(line.Thickness),
	})
}
