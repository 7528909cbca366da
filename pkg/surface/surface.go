package surface

import (
	"sync"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
)

// Default layout values in pixels.
const (
	DefaultCardWidth  = 160.0
	DefaultCardHeight = 72.0
	DefaultColumnGap  = 32.0
	DefaultRowGap     = 72.0
	DefaultPadding    = 24.0

	DefaultViewportWidth  = 1024.0
	DefaultViewportHeight = 640.0
)

// Options controls card placement.
type Options struct {
	CardWidth  float64
	CardHeight float64
	ColumnGap  float64
	RowGap     float64
	Padding    float64
}

// DefaultOptions returns the stock card layout.
func DefaultOptions() Options {
	return Options{
		CardWidth:  DefaultCardWidth,
		CardHeight: DefaultCardHeight,
		ColumnGap:  DefaultColumnGap,
		RowGap:     DefaultRowGap,
		Padding:    DefaultPadding,
	}
}

// Card is a laid-out member card.
type Card struct {
	geometry.Card
	Member *family.Member
	// Rect is the card's box in content coordinates.
	Rect   geometry.Rect
	Avatar string
	Target string
}

// Surface lays out the cards of one window and plays the part of the
// rendering surface: it reports card boxes in viewport coordinates, keeps a
// scroll position and resolves color tokens through a [Palette].
//
// A Surface is safe for concurrent use.
type Surface struct {
	mu sync.RWMutex

	opts    Options
	avatars family.AvatarResolver
	colors  geometry.ColorProber

	cards   []Card
	content geometry.Size
	origin  geometry.Point
	view    geometry.Size
	scroll  geometry.Point
}

// Option configures a [Surface].
type Option func(*Surface)

// WithLayout sets card sizes and gaps. Zero fields keep their defaults.
func WithLayout(o Options) Option {
	return func(s *Surface) {
		def := DefaultOptions()
		s.opts = Options{
			CardWidth:  or(o.CardWidth, def.CardWidth),
			CardHeight: or(o.CardHeight, def.CardHeight),
			ColumnGap:  or(o.ColumnGap, def.ColumnGap),
			RowGap:     or(o.RowGap, def.RowGap),
			Padding:    or(o.Padding, def.Padding),
		}
	}
}

// WithAvatars sets the resolver applied to every card's avatar.
func WithAvatars(r family.AvatarResolver) Option { return func(s *Surface) { s.avatars = r } }

// WithOrigin places the container at (x, y) in client coordinates.
func WithOrigin(x, y float64) Option {
	return func(s *Surface) { s.origin = geometry.Point{X: x, Y: y} }
}

// WithViewport sets the initial container size.
func WithViewport(w, h float64) Option {
	return func(s *Surface) { s.view = geometry.Size{Width: w, Height: h} }
}

// WithColors replaces the palette. A nil prober is allowed and makes
// [Surface.ProbeColor] report every token as unknown.
func WithColors(p geometry.ColorProber) Option { return func(s *Surface) { s.colors = p } }

// New creates an empty surface. Call [Surface.Relayout] to place cards.
func New(opts ...Option) *Surface {
	s := &Surface{
		opts:   DefaultOptions(),
		colors: Palette{},
		view:   geometry.Size{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Relayout places the cards of root's window and re-clamps the scroll
// position. Rows are parents; left siblings, root, spouse, right siblings;
// children. Empty rows are dropped and every row is centered on the widest.
func (s *Surface) Relayout(root *family.Member) {
	rows := buildRows(root)

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.opts
	widest := 0.0
	for _, r := range rows {
		widest = max(widest, o.rowWidth(len(r)))
	}

	s.cards = s.cards[:0]
	y := o.Padding
	for _, r := range rows {
		x := o.Padding + (widest-o.rowWidth(len(r)))/2
		for _, e := range r {
			s.cards = append(s.cards, s.card(e, geometry.Rect{
				Left: x, Top: y, Width: o.CardWidth, Height: o.CardHeight,
			}))
			x += o.CardWidth + o.ColumnGap
		}
		y += o.CardHeight + o.RowGap
	}

	height := 2 * o.Padding
	if len(rows) > 0 {
		height = y - o.RowGap + o.Padding
	}
	s.content = geometry.Size{Width: widest + 2*o.Padding, Height: height}
	s.scroll = s.clamp(s.scroll)
}

func (s *Surface) card(e entry, r geometry.Rect) Card {
	target, _ := e.member.NavigationTarget()
	return Card{
		Card:   geometry.Card{MemberID: e.member.ID, Role: e.role},
		Member: e.member,
		Rect:   r,
		Avatar: family.ResolveAvatar(s.avatars, e.member),
		Target: target,
	}
}

func (o Options) rowWidth(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*o.CardWidth + float64(n-1)*o.ColumnGap
}

type entry struct {
	member *family.Member
	role   geometry.Role
}

func buildRows(root *family.Member) [][]entry {
	if root == nil {
		return nil
	}
	w := family.NewWindow(root)
	tag := func(ms []*family.Member, role geometry.Role) []entry {
		out := make([]entry, 0, len(ms))
		for _, m := range ms {
			out = append(out, entry{member: m, role: role})
		}
		return out
	}

	middle := tag(w.SiblingsLeft, geometry.RoleSibling)
	middle = append(middle, entry{member: w.Root, role: geometry.RoleRoot})
	if w.Spouse != nil {
		middle = append(middle, entry{member: w.Spouse, role: geometry.RoleSpouse})
	}
	middle = append(middle, tag(w.SiblingsRight, geometry.RoleSibling)...)

	var rows [][]entry
	if len(w.Parents) > 0 {
		rows = append(rows, tag(w.Parents, geometry.RoleParent))
	}
	rows = append(rows, middle)
	if len(w.Children) > 0 {
		rows = append(rows, tag(w.Children, geometry.RoleChild))
	}
	return rows
}

// Resize changes the container size. The scroll position is re-clamped.
func (s *Surface) Resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = geometry.Size{Width: max(w, 0), Height: max(h, 0)}
	s.scroll = s.clamp(s.scroll)
}

// ScrollTo scrolls the container, clamped to the scrollable range.
// It returns the position actually applied.
func (s *Surface) ScrollTo(x, y float64) geometry.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = s.clamp(geometry.Point{X: x, Y: y})
	return s.scroll
}

func (s *Surface) clamp(p geometry.Point) geometry.Point {
	maxX := max(s.content.Width-s.view.Width, 0)
	maxY := max(s.content.Height-s.view.Height, 0)
	return geometry.Point{X: min(max(p.X, 0), maxX), Y: min(max(p.Y, 0), maxY)}
}

// Snapshot returns a copy of the laid-out cards in content coordinates.
func (s *Surface) Snapshot() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Find returns the first card of the given member.
func (s *Surface) Find(memberID string) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cards {
		if c.MemberID == memberID {
			return c, true
		}
	}
	return Card{}, false
}

// Cards implements [geometry.Surface].
func (s *Surface) Cards() []geometry.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]geometry.Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Card
	}
	return out
}

// ClientRect implements [geometry.Surface].
func (s *Surface) ClientRect(c geometry.Card) (geometry.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, card := range s.cards {
		if card.Card == c {
			return card.Rect.Translate(s.origin.X-s.scroll.X, s.origin.Y-s.scroll.Y), true
		}
	}
	return geometry.Rect{}, false
}

// ContainerRect implements [geometry.Surface].
func (s *Surface) ContainerRect() geometry.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return geometry.Rect{Left: s.origin.X, Top: s.origin.Y, Width: s.view.Width, Height: s.view.Height}
}

// ScrollOffset implements [geometry.Surface].
func (s *Surface) ScrollOffset() geometry.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scroll
}

// ScrollSize implements [geometry.Surface]. Like a browser's scroll size
// it never falls below the viewport.
func (s *Surface) ScrollSize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return geometry.Size{
		Width:  max(s.content.Width, s.view.Width),
		Height: max(s.content.Height, s.view.Height),
	}
}

// ContentSize returns the size covered by cards plus padding.
func (s *Surface) ContentSize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// ProbeColor implements [geometry.ColorProber].
func (s *Surface) ProbeColor(token string) (string, bool) {
	if s.colors == nil {
		return "", false
	}
	return s.colors.ProbeColor(token)
}

func or(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
