package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/surface"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	ink    colorful.Color
	prober geometry.ColorProber
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithInk sets the color used for strokes that inherit the current color.
func WithInk(hex string) PNGOption {
	return func(r *pngRenderer) {
		if c, err := colorful.Hex(hex); err == nil {
			r.ink = c
		}
	}
}

// WithPNGProber resolves card border colors. The default is
// [surface.Palette].
func WithPNGProber(p geometry.ColorProber) PNGOption {
	return func(r *pngRenderer) { r.prober = p }
}

// RenderPNG rasterizes the scene. Avatars are not fetched; cards show
// their text only.
func RenderPNG(sc Scene, opts ...PNGOption) ([]byte, error) {
	ink, _ := colorful.Hex(inkColor)
	r := pngRenderer{scale: 2.0, ink: ink, prober: surface.Palette{}}
	for _, opt := range opts {
		opt(&r)
	}

	w := max(px(sc.Size.Width*r.scale), 1)
	h := max(px(sc.Size.Height*r.scale), 1)
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	dc.SetColor(r.color("#f8fafc"))
	dc.Clear()

	for _, c := range sc.Cards {
		r.card(dc, sc, c)
	}
	for _, seg := range sc.Result.Segments {
		r.segment(dc, seg)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) card(dc *gg.Context, sc Scene, c surface.Card) {
	b := c.Rect
	dc.DrawRoundedRectangle(b.Left, b.Top, b.Width, b.Height, 8)
	dc.SetColor(r.color(cardFill))
	dc.FillPreserve()
	dc.SetLineWidth(1.5)
	dc.SetColor(r.color(sc.cardColor(c.Member, r.prober)))
	dc.Stroke()

	dc.SetColor(r.color(inkColor))
	dc.DrawStringAnchored(c.Member.DisplayName(), b.Left+12, b.Top+24, 0, 0.5)
	if c.Member.Birthday != "" {
		dc.SetColor(r.color(mutedColor))
		dc.DrawStringAnchored(c.Member.Birthday, b.Left+12, b.Top+44, 0, 0.5)
	}
}

func (r pngRenderer) segment(dc *gg.Context, seg geometry.Segment) {
	if len(seg.Path) == 0 {
		return
	}
	dc.NewSubPath()
	for _, cmd := range seg.Path {
		switch cmd.Op {
		case 'M':
			dc.MoveTo(cmd.X, cmd.Y)
		default:
			dc.LineTo(cmd.X, cmd.Y)
		}
	}
	dc.SetLineWidth(seg.Width)
	dc.SetLineCapSquare()
	dc.SetColor(r.color(seg.Stroke))
	dc.Stroke()
}

// color parses a "#rrggbb" stroke. Anything else, including
// [geometry.InheritColor], is drawn in ink.
func (r pngRenderer) color(s string) colorful.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	return r.ink
}
