// Package pkg provides the core libraries for famtree family tree rendering.
//
// # Overview
//
// famtree draws the neighborhood of one member: parents above, the member
// and spouse in the middle with siblings to either side, children below.
// Cards are joined by connector lines whose thickness and color follow a
// style preset and each member's link status.
//
// # Architecture
//
// The typical data flow:
//
//	tree file (JSON, YAML, TOML)
//	         ↓
//	    [family] package (load, validate, window)
//	         ↓
//	    [surface] package (card layout, viewport, scroll)
//	         ↓
//	    [geometry] package (connector segments from measured cards)
//	         ↓
//	    [render/sink] package (SVG, PNG, JSON)
//
// [diagram] ties surface and geometry together and recomputes on resize,
// scroll and tree changes through a [scheduler]. [pipeline] runs the whole
// flow once with caching and is shared by the CLI and the render service.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    TreePath: "ada.yaml",
//	    Preset:   connector.PresetCompact,
//	    Formats:  []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// [family] - Member tree model, link statuses, the root's display window,
// sibling split and tree file I/O.
//
// [connector] - Style presets (default, compact, contrast) and overrides
// merged field by field.
//
// [geometry] - The connector engine: couple lines, trunks, sibling buses and
// drops computed from measured card rectangles.
//
// [surface] - An in-memory card surface with a viewport, used as the
// geometry engine's measurement source.
//
// [diagram] - The recompute loop binding a tree, a style and a surface.
//
// [scheduler] - Coalescing of resize, scroll and change signals into single
// recomputations.
//
// [addmember] - The add-member form, payload validation and debounced
// profile search.
//
// [render] - Output encoders (SVG, PNG, JSON) and the Graphviz relationship
// view.
//
// [cache] - Artifact and style caching on disk or in Redis.
//
// [observability] - Hooks for logging or metrics around pipeline stages,
// cache access and HTTP requests.
//
// [family]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/family
// [connector]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/connector
// [geometry]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/geometry
// [surface]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/surface
// [diagram]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/diagram
// [scheduler]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/scheduler
// [addmember]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/addmember
// [render]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/observability
package pkg
