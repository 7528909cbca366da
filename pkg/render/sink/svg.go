package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/surface"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	linkBase string
	prober   geometry.ColorProber
	avatars  bool
}

// WithLinkBase wraps cards with a navigation target in a link to
// base+target.
func WithLinkBase(base string) SVGOption { return func(r *svgRenderer) { r.linkBase = base } }

// WithProber resolves card border colors. The default is [surface.Palette].
func WithProber(p geometry.ColorProber) SVGOption { return func(r *svgRenderer) { r.prober = p } }

// WithoutAvatars skips avatar images.
func WithoutAvatars() SVGOption { return func(r *svgRenderer) { r.avatars = false } }

// RenderSVG draws the cards and then the connector overlay on top, in the
// same coordinate space. The canvas covers the scene's full scroll size.
func RenderSVG(sc Scene, opts ...SVGOption) []byte {
	r := svgRenderer{prober: surface.Palette{}, avatars: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(sc.Size.Width), px(sc.Size.Height)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	canvas.Title("family tree")
	canvas.Rect(0, 0, w, h, "fill:#f8fafc")

	canvas.Group(`id="cards"`)
	for _, c := range sc.Cards {
		r.card(canvas, sc, c)
	}
	canvas.Gend()

	canvas.Group(`id="connectors"`, `fill="none"`, `stroke-linecap="square"`)
	for _, seg := range sc.Result.Segments {
		canvas.Path(seg.D,
			attr("id", "seg-"+seg.ID),
			attr("class", "connector "+string(seg.Kind)),
			attr("stroke", seg.Stroke),
			attr("stroke-width", fmt.Sprintf("%g", seg.Width)))
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

func (r svgRenderer) card(canvas *svg.SVG, sc Scene, c surface.Card) {
	x, y := px(c.Rect.Left), px(c.Rect.Top)
	w, h := px(c.Rect.Width), px(c.Rect.Height)

	link := r.linkBase != "" && c.Target != ""
	if link {
		canvas.Link(html.EscapeString(r.linkBase+c.Target), html.EscapeString(c.Member.DisplayName()))
	}
	canvas.Group(
		attr("id", "card-"+c.MemberID),
		attr("class", "card "+string(c.Role)),
		attr("data-member", c.MemberID))

	canvas.Roundrect(x, y, w, h, 8, 8,
		attr("fill", cardFill),
		attr("stroke", sc.cardColor(c.Member, r.prober)),
		`stroke-width="1.5"`)

	textX := x + 12
	if r.avatars && c.Avatar != "" {
		size := h - 24
		canvas.Image(x+12, y+12, size, size, html.EscapeString(c.Avatar), `preserveAspectRatio="xMidYMid slice"`)
		textX += size + 10
	}

	canvas.Text(textX, y+28, c.Member.DisplayName(),
		fmt.Sprintf("font-family:system-ui,sans-serif;font-size:14px;font-weight:600;fill:%s", inkColor))
	line := y + 46
	if c.Member.Birthday != "" {
		canvas.Text(textX, line, c.Member.Birthday,
			fmt.Sprintf("font-family:system-ui,sans-serif;font-size:11px;fill:%s", mutedColor))
		line += 14
	}
	if c.Member.Relation != "" {
		canvas.Text(textX, line, c.Member.Relation,
			fmt.Sprintf("font-family:system-ui,sans-serif;font-size:11px;font-style:italic;fill:%s", mutedColor))
	}

	canvas.Gend()
	if link {
		canvas.LinkEnd()
	}
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func px(v float64) int { return int(math.Round(v)) }
