package geometry

// Role tags a card with its place in the window.
type Role string

// Card roles.
const (
	RoleParent  Role = "parent"
	RoleSibling Role = "sibling"
	RoleRoot    Role = "root"
	RoleSpouse  Role = "spouse"
	RoleChild   Role = "child"
)

// Card is an opaque handle to a rendered member card.
type Card struct {
	MemberID string
	Role     Role
}

// Surface is the measurement side of a rendering surface.
//
// Rectangles are reported in viewport (client) coordinates, the way a
// browser reports element boxes. The engine converts them into content
// coordinates using the container's rect and scroll offset.
type Surface interface {
	// Cards lists every rendered card tagged with a role.
	Cards() []Card
	// ClientRect returns the card's box, or false if it is not rendered.
	ClientRect(c Card) (Rect, bool)
	// ContainerRect returns the scroll container's box in client coordinates.
	ContainerRect() Rect
	// ScrollOffset returns the container's current scroll position.
	ScrollOffset() Point
	// ScrollSize returns the size of the container's scrollable content.
	ScrollSize() Size
}

// ColorProber resolves a utility token such as "bg-emerald-500" into a
// concrete color by asking the rendering surface.
type ColorProber interface {
	ProbeColor(token string) (string, bool)
}

// Measurement maps member ids onto content-space rectangles.
type Measurement struct {
	Rects map[string]Rect
	Size  Size
}

// Measure reads every tagged card off s. The first card of a member wins;
// unrendered cards are skipped.
func Measure(s Surface) Measurement {
	m := Measurement{Rects: make(map[string]Rect)}
	if s == nil {
		return m
	}
	container := s.ContainerRect()
	scroll := s.ScrollOffset()
	dx := scroll.X - container.Left
	dy := scroll.Y - container.Top

	for _, c := range s.Cards() {
		if _, seen := m.Rects[c.MemberID]; seen {
			continue
		}
		r, ok := s.ClientRect(c)
		if !ok {
			continue
		}
		m.Rects[c.MemberID] = r.Translate(dx, dy)
	}
	m.Size = s.ScrollSize()
	return m
}
