package geometry

import (
	"strconv"
	"strings"
)

// Point is a position in content coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a drawing surface.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// TopCenter is the anchor child drops end on.
func (r Rect) TopCenter() Point { return Point{X: r.CenterX(), Y: r.Top} }

// BottomCenter is the junction of a single-parent unit.
func (r Rect) BottomCenter() Point { return Point{X: r.CenterX(), Y: r.Bottom()} }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// PathCommand is one line-drawing instruction: 'M' (move) or 'L' (line).
type PathCommand struct {
	Op   byte
	X, Y float64
}

// Path is a sequence of drawing commands.
type Path []PathCommand

// Line returns the two-command path from a to b.
func Line(a, b Point) Path {
	return Path{{Op: 'M', X: a.X, Y: a.Y}, {Op: 'L', X: b.X, Y: b.Y}}
}

// String renders p as an SVG path descriptor, e.g. "M10 20 L30 20".
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Op)
		b.WriteString(fmtCoord(c.X))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(c.Y))
	}
	return b.String()
}

// Endpoints returns the first and last points of p.
func (p Path) Endpoints() (Point, Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	first, last := p[0], p[len(p)-1]
	return Point{X: first.X, Y: first.Y}, Point{X: last.X, Y: last.Y}
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Kind identifies the relationship edge a segment draws.
type Kind string

// Segment kinds.
const (
	KindCouple Kind = "couple"
	KindTrunk  Kind = "trunk"
	KindBus    Kind = "bus"
	KindDrop   Kind = "drop"
)

// Segment is one stroked path of the connector overlay.
type Segment struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	Path   Path    `json:"-"`
	D      string  `json:"d"`
	Stroke string  `json:"stroke"`
	Width  float64 `json:"width"`
}

// Result is the output of one measurement pass. It replaces any previous
// result wholesale.
type Result struct {
	Segments  []Segment        `json:"segments"`
	Size      Size             `json:"size"`
	Rects     map[string]Rect  `json:"rects"`
	Junctions map[string]Point `json:"junctions,omitempty"`
}

// Segment returns the segment with the given id.
func (r Result) Segment(id string) (Segment, bool) {
	for _, s := range r.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// Count returns how many segments of kind k were emitted.
func (r Result) Count(k Kind) int {
	n := 0
	for _, s := range r.Segments {
		if s.Kind == k {
			n++
		}
	}
	return n
}
