// Package pipeline provides the render pipeline shared by the CLI, the
// watch loop and the HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and validate the family tree, resolve the connector style
//  2. Layout: place the cards and compute the connector geometry
//  3. Render: write SVG, PNG, JSON or DOT
//
// Rendered artifacts are cached under a key derived from the tree content
// and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    TreePath: "family.yaml",
//	    Preset:   "compact",
//	    Formats:  []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/render/sink"
	"github.com/matzehuels/famtree/pkg/surface"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watch
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = surface.DefaultViewportWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = surface.DefaultViewportHeight

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0
)

// Visualization types.
const (
	VizTypeDiagram  = "diagram"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeDiagram

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeDiagram:  true,
	VizTypeNodelink: true,
}

// ContentTypes maps formats onto MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Tree takes precedence over TreePath.
	TreePath     string              `json:"tree_path,omitempty"`
	Tree         *family.Member      `json:"tree,omitempty"`
	Preset       string              `json:"preset,omitempty"`
	OverridePath string              `json:"override_path,omitempty"`
	Override     *connector.Override `json:"override,omitempty"`
	Refresh      bool                `json:"refresh,omitempty"`

	// Layout options
	VizType string  `json:"viz_type,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	ScrollX float64 `json:"scroll_x,omitempty"`
	ScrollY float64 `json:"scroll_y,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	AvatarBase string   `json:"avatar_base,omitempty"`
	LinkBase   string   `json:"link_base,omitempty"`
	NoAvatars  bool     `json:"no_avatars,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded root member.
	Tree *family.Member

	// TreeHash is the content hash of the canonical tree encoding.
	TreeHash string

	// Style is the resolved connector style.
	Style connector.Config

	// Scene holds the laid-out cards and connector geometry. It is empty
	// for nodelink runs.
	Scene sink.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MemberCount  int
	SegmentCount int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePreset checks that a preset name is known. The empty name is
// valid and means the default preset.
func ValidatePreset(preset string) error {
	if preset != "" && !connector.IsPreset(preset) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid preset: %q (must be one of: %s)",
			preset, strings.Join(connector.Presets(), ", "))
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: diagram, nodelink)", vizType)
	}
	return nil
}

// ValidateCombination rejects formats the visualization type cannot
// produce. The relationship graph has no JSON form.
func ValidateCombination(vizType, format string) error {
	if vizType == VizTypeNodelink && format == FormatJSON {
		return errors.New(errors.ErrCodeUnsupported, "format %q is not supported for %s", format, vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Tree == nil && o.TreePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree or tree_path is required")
	}
	o.SetDefaults()
	if err := ValidatePreset(o.Preset); err != nil {
		return err
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if err := ValidateCombination(o.VizType, f); err != nil {
			return err
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport must not be negative: %vx%v", o.Width, o.Height)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Preset == "" {
		o.Preset = connector.PresetDefault
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink returns true if this is a relationship graph run.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// Source names where the tree comes from, for logs and hooks.
func (o *Options) Source() string {
	if o.Tree != nil {
		return "inline"
	}
	return o.TreePath
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format, styleHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		VizType:   o.VizType,
		Preset:    o.Preset,
		StyleHash: styleHash,
		Width:     o.Width,
		Height:    o.Height,
		LinkBase:  o.LinkBase,
		Detailed:  o.Detailed,
	}
	if !o.NoAvatars {
		k.AvatarBase = o.AvatarBase
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// surfaceOptions configures the card surface for a run.
func (o *Options) surfaceOptions() []surface.Option {
	return []surface.Option{
		surface.WithViewport(o.Width, o.Height),
		surface.WithAvatars(family.PrefixResolver{BaseURL: o.AvatarBase}),
	}
}
