package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/pipeline"
)

// renderFlags holds the command-line flags shared by render and watch.
type renderFlags struct {
	output     string
	formats    string
	preset     string
	override   string
	vizType    string
	width      float64
	height     float64
	scrollX    float64
	scrollY    float64
	avatarBase string
	linkBase   string
	noAvatars  bool
	detailed   bool
	scale      float64
	noCache    bool
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (base name when several formats are given)")
	fl.StringVarP(&f.formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats: svg, png, json, dot")
	fl.StringVarP(&f.preset, "preset", "p", "", "connector style preset: default, compact, contrast")
	fl.StringVar(&f.override, "override", "", "style override file (JSON, YAML or TOML)")
	fl.StringVar(&f.vizType, "viz", pipeline.DefaultVizType, "visualization type: diagram, nodelink")
	fl.Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width in pixels")
	fl.Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height in pixels")
	fl.Float64Var(&f.scrollX, "scroll-x", 0, "horizontal scroll offset of the viewport")
	fl.Float64Var(&f.scrollY, "scroll-y", 0, "vertical scroll offset of the viewport")
	fl.StringVar(&f.avatarBase, "avatar-base", "", "prefix for relative avatar URLs")
	fl.StringVar(&f.linkBase, "link-base", "", "prefix for card profile links")
	fl.BoolVar(&f.noAvatars, "no-avatars", false, "draw initials instead of avatar images")
	fl.BoolVar(&f.detailed, "detailed", false, "show birthdays and status in nodelink output")
	fl.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	fl.BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
}

// options converts the flags into pipeline options for treePath.
func (f *renderFlags) options(treePath string) pipeline.Options {
	return pipeline.Options{
		TreePath:     treePath,
		Preset:       f.preset,
		OverridePath: f.override,
		Refresh:      f.refresh,
		VizType:      f.vizType,
		Width:        f.width,
		Height:       f.height,
		ScrollX:      f.scrollX,
		ScrollY:      f.scrollY,
		Formats:      parseFormats(f.formats),
		AvatarBase:   f.avatarBase,
		LinkBase:     f.linkBase,
		NoAvatars:    f.noAvatars,
		Detailed:     f.detailed,
		Scale:        f.scale,
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <tree-file>",
		Short: "Render a family tree to SVG, PNG, JSON or DOT",
		Long: `Render lays out the neighborhood of the tree's root member and writes one
file per requested format. Tree files may be JSON, YAML or TOML.`,
		Example: `  famtree render ada.json
  famtree render ada.yaml -f svg,png --preset compact
  famtree render ada.json --viz nodelink -f dot -o ada-graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering "+args[0]+"...")
			spinner.Start()
			res, paths, err := c.renderFiles(cmd.Context(), runner, flags.options(args[0]), flags.output)
			if err != nil {
				spinner.StopWithError("Render failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", res.Tree.DisplayName()))

			for _, p := range paths {
				printFile(p)
			}
			printStats(res.Stats.MemberCount, res.Stats.SegmentCount, res.CacheInfo.RenderHit)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// renderFiles runs the pipeline and writes each artifact next to the tree
// file, or to output. It returns the written paths in format order.
func (c *CLI) renderFiles(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) (*pipeline.Result, []string, error) {
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	formats := slices.Clone(opts.Formats)
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	multi := len(formats) > 1

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(opts.TreePath, output, format, multi)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	prog.done("render finished",
		"members", res.Stats.MemberCount,
		"segments", res.Stats.SegmentCount,
		"cached", res.CacheInfo.RenderHit)
	return res, paths, nil
}
