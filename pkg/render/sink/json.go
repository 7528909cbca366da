package sink

import (
	"encoding/json"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
)

type jsonOutput struct {
	Width     float64                   `json:"width"`
	Height    float64                   `json:"height"`
	Preset    string                    `json:"preset,omitempty"`
	Cards     []jsonCard                `json:"cards"`
	Segments  []geometry.Segment        `json:"segments"`
	Junctions map[string]geometry.Point `json:"junctions,omitempty"`
}

type jsonCard struct {
	ID       string            `json:"id"`
	Role     string            `json:"role"`
	Name     string            `json:"name"`
	Birthday string            `json:"birthday,omitempty"`
	Relation string            `json:"relation,omitempty"`
	Status   family.LinkStatus `json:"status,omitempty"`
	Avatar   string            `json:"avatar,omitempty"`
	Target   string            `json:"target,omitempty"`
	Rect     geometry.Rect     `json:"rect"`
}

// RenderJSON exports the scene as indented JSON for external tools.
func RenderJSON(sc Scene) ([]byte, error) {
	out := jsonOutput{
		Width:     sc.Size.Width,
		Height:    sc.Size.Height,
		Preset:    sc.Preset,
		Cards:     make([]jsonCard, 0, len(sc.Cards)),
		Segments:  sc.Result.Segments,
		Junctions: sc.Result.Junctions,
	}
	if out.Segments == nil {
		out.Segments = []geometry.Segment{}
	}
	for _, c := range sc.Cards {
		out.Cards = append(out.Cards, jsonCard{
			ID:       c.MemberID,
			Role:     string(c.Role),
			Name:     c.Member.DisplayName(),
			Birthday: c.Member.Birthday,
			Relation: c.Member.Relation,
			Status:   c.Member.Status,
			Avatar:   c.Avatar,
			Target:   c.Target,
			Rect:     c.Rect,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
