package sink

import (
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/surface"
)

// Scene is everything a sink draws: the laid-out cards and the connector
// overlay, both in content coordinates.
type Scene struct {
	Cards  []surface.Card
	Result geometry.Result
	Size   geometry.Size
	Style  connector.Config
	Preset string
}

// NewScene captures the current cards of s together with res.
func NewScene(s *surface.Surface, res geometry.Result, style connector.Config, preset string) Scene {
	size := res.Size
	if size.Width == 0 || size.Height == 0 {
		size = s.ScrollSize()
	}
	return Scene{
		Cards:  s.Snapshot(),
		Result: res,
		Size:   size,
		Style:  style,
		Preset: preset,
	}
}

// cardColor is the resolved border color of a card.
func (sc Scene) cardColor(m *family.Member, probe geometry.ColorProber) string {
	class, ok := sc.Style.StatusColor(m.Status)
	if !ok {
		class = sc.Style.StatusColors.Default
	}
	tok, ok := geometry.ColorToken(class)
	if !ok || probe == nil {
		return defaultBorder
	}
	if c, ok := probe.ProbeColor(tok); ok {
		return c
	}
	return defaultBorder
}

const (
	defaultBorder = "#cbd5e1"
	cardFill      = "#ffffff"
	inkColor      = "#334155"
	mutedColor    = "#64748b"
)
