package connector

import "github.com/matzehuels/famtree/pkg/family"

// Preset names.
const (
	PresetDefault  = "default"
	PresetCompact  = "compact"
	PresetContrast = "contrast"
)

// StatusColors maps link statuses onto color-class tokens.
type StatusColors struct {
	Linked        string `json:"linked" yaml:"linked" toml:"linked"`
	InvitePending string `json:"invite_pending" yaml:"invite_pending" toml:"invite_pending"`
	Manual        string `json:"manual" yaml:"manual" toml:"manual"`
	Default       string `json:"default" yaml:"default" toml:"default"`
}

// LineStyle is the thickness and color class of one kind of connector.
type LineStyle struct {
	Thickness string `json:"thickness" yaml:"thickness" toml:"thickness"`
	Color     string `json:"color" yaml:"color" toml:"color"`
}

// Anchors holds pixel offsets applied to card anchor points.
type Anchors struct {
	CoupleInsetPx float64 `json:"couple_inset_px" yaml:"couple_inset_px" toml:"couple_inset_px"`
	VerticalGapPx float64 `json:"vertical_gap_px" yaml:"vertical_gap_px" toml:"vertical_gap_px"`
}

// Config is a fully resolved connector style. It is built once per render
// pass and treated as immutable afterwards.
type Config struct {
	StatusColors StatusColors `json:"status_colors" yaml:"status_colors" toml:"status_colors"`
	CoupleLine   LineStyle    `json:"couple_line" yaml:"couple_line" toml:"couple_line"`
	Trunk        LineStyle    `json:"trunk" yaml:"trunk" toml:"trunk"`
	SiblingBus   LineStyle    `json:"sibling_bus" yaml:"sibling_bus" toml:"sibling_bus"`
	Drop         LineStyle    `json:"drop" yaml:"drop" toml:"drop"`
	Anchors      Anchors      `json:"anchors" yaml:"anchors" toml:"anchors"`
}

// StatusColor returns the color class mapped to status and whether the
// status has its own entry. The empty status is never mapped.
func (c Config) StatusColor(status family.LinkStatus) (string, bool) {
	var v string
	switch status {
	case family.StatusLinked:
		v = c.StatusColors.Linked
	case family.StatusInvitePending:
		v = c.StatusColors.InvitePending
	case family.StatusManual:
		v = c.StatusColors.Manual
	}
	return v, v != ""
}

var presets = map[string]Config{
	PresetDefault: {
		StatusColors: StatusColors{
			Linked:        "bg-emerald-500",
			InvitePending: "bg-amber-400",
			Manual:        "bg-slate-400",
			Default:       "bg-slate-300",
		},
		CoupleLine: LineStyle{Thickness: "h-px", Color: "bg-slate-300"},
		Trunk:      LineStyle{Thickness: "w-px", Color: "bg-slate-300"},
		SiblingBus: LineStyle{Thickness: "h-px", Color: "bg-slate-300"},
		Drop:       LineStyle{Thickness: "w-px", Color: "bg-slate-300"},
		Anchors:    Anchors{CoupleInsetPx: 0, VerticalGapPx: 24},
	},
	PresetCompact: {
		StatusColors: StatusColors{
			Linked:        "bg-emerald-500",
			InvitePending: "bg-amber-400",
			Manual:        "bg-slate-400",
			Default:       "bg-slate-300",
		},
		CoupleLine: LineStyle{Thickness: "h-[2px]", Color: "bg-slate-300"},
		Trunk:      LineStyle{Thickness: "w-[2px]", Color: "bg-slate-300"},
		SiblingBus: LineStyle{Thickness: "h-[2px]", Color: "bg-slate-300"},
		Drop:       LineStyle{Thickness: "w-[2px]", Color: "bg-slate-300"},
		Anchors:    Anchors{CoupleInsetPx: 0, VerticalGapPx: 16},
	},
	PresetContrast: {
		StatusColors: StatusColors{
			Linked:        "bg-emerald-700",
			InvitePending: "bg-amber-600",
			Manual:        "bg-slate-700",
			Default:       "bg-slate-900",
		},
		CoupleLine: LineStyle{Thickness: "h-[2px]", Color: "bg-slate-900"},
		Trunk:      LineStyle{Thickness: "w-[2px]", Color: "bg-slate-900"},
		SiblingBus: LineStyle{Thickness: "h-[2px]", Color: "bg-slate-900"},
		Drop:       LineStyle{Thickness: "w-[2px]", Color: "bg-slate-900"},
		Anchors:    Anchors{CoupleInsetPx: 0, VerticalGapPx: 24},
	},
}

// Presets returns the built-in preset names in a stable order.
func Presets() []string {
	return []string{PresetDefault, PresetCompact, PresetContrast}
}

// IsPreset reports whether name is a built-in preset.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Preset returns the named preset, falling back to [PresetDefault].
func Preset(name string) Config {
	if c, ok := presets[name]; ok {
		return c
	}
	return presets[PresetDefault]
}
