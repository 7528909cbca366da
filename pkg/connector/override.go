package connector

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

// Override is a partial [Config]. Nil fields keep the preset's value, so a
// zero can still be set explicitly.
type Override struct {
	StatusColors *StatusColorsOverride `json:"status_colors,omitempty" yaml:"status_colors,omitempty" toml:"status_colors,omitempty"`
	CoupleLine   *LineStyleOverride    `json:"couple_line,omitempty" yaml:"couple_line,omitempty" toml:"couple_line,omitempty"`
	Trunk        *LineStyleOverride    `json:"trunk,omitempty" yaml:"trunk,omitempty" toml:"trunk,omitempty"`
	SiblingBus   *LineStyleOverride    `json:"sibling_bus,omitempty" yaml:"sibling_bus,omitempty" toml:"sibling_bus,omitempty"`
	Drop         *LineStyleOverride    `json:"drop,omitempty" yaml:"drop,omitempty" toml:"drop,omitempty"`
	Anchors      *AnchorsOverride      `json:"anchors,omitempty" yaml:"anchors,omitempty" toml:"anchors,omitempty"`
}

// StatusColorsOverride overrides individual status colors.
type StatusColorsOverride struct {
	Linked        *string `json:"linked,omitempty" yaml:"linked,omitempty" toml:"linked,omitempty"`
	InvitePending *string `json:"invite_pending,omitempty" yaml:"invite_pending,omitempty" toml:"invite_pending,omitempty"`
	Manual        *string `json:"manual,omitempty" yaml:"manual,omitempty" toml:"manual,omitempty"`
	Default       *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

// LineStyleOverride overrides a line's thickness or color.
type LineStyleOverride struct {
	Thickness *string `json:"thickness,omitempty" yaml:"thickness,omitempty" toml:"thickness,omitempty"`
	Color     *string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
}

// AnchorsOverride overrides anchor offsets.
type AnchorsOverride struct {
	CoupleInsetPx *float64 `json:"couple_inset_px,omitempty" yaml:"couple_inset_px,omitempty" toml:"couple_inset_px,omitempty"`
	VerticalGapPx *float64 `json:"vertical_gap_px,omitempty" yaml:"vertical_gap_px,omitempty" toml:"vertical_gap_px,omitempty"`
}

// String returns a pointer to s, for building overrides inline.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building overrides inline.
func Float(f float64) *float64 { return &f }

// Resolve returns the named preset merged with o. Unknown names resolve to
// the default preset; a nil override returns the preset unchanged. Each
// group is merged field by field, so overriding one status color keeps the
// other three.
func Resolve(name string, o *Override) Config {
	c := Preset(name)
	if o == nil {
		return c
	}
	if s := o.StatusColors; s != nil {
		set(&c.StatusColors.Linked, s.Linked)
		set(&c.StatusColors.InvitePending, s.InvitePending)
		set(&c.StatusColors.Manual, s.Manual)
		set(&c.StatusColors.Default, s.Default)
	}
	mergeLine(&c.CoupleLine, o.CoupleLine)
	mergeLine(&c.Trunk, o.Trunk)
	mergeLine(&c.SiblingBus, o.SiblingBus)
	mergeLine(&c.Drop, o.Drop)
	if a := o.Anchors; a != nil {
		set(&c.Anchors.CoupleInsetPx, a.CoupleInsetPx)
		set(&c.Anchors.VerticalGapPx, a.VerticalGapPx)
	}
	return c
}

func mergeLine(dst *LineStyle, o *LineStyleOverride) {
	if o == nil {
		return
	}
	set(&dst.Thickness, o.Thickness)
	set(&dst.Color, o.Color)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// LoadOverride reads an override file. The format follows the extension
// (.toml, .yaml/.yml or .json).
func LoadOverride(path string) (*Override, error) {
	format, err := family.FormatFromPath(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unsupported style override file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open style override %s", path)
		}
		return nil, err
	}
	return ParseOverride(data, format)
}

// ParseOverride decodes an override in the given format.
func ParseOverride(data []byte, format string) (*Override, error) {
	var o Override
	var err error
	switch format {
	case family.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&o)
	case family.FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&o)
	case family.FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &o)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style override key: %s", undecoded[0])
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unsupported style override format: %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode style override")
	}
	return &o, nil
}
