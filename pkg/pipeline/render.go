package pipeline

import (
	"context"

	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/render/nodelink"
	"github.com/matzehuels/famtree/pkg/render/sink"
)

// renderFormat produces one artifact. DOT output and every nodelink format
// go through Graphviz; the rest draw the laid-out scene.
func renderFormat(ctx context.Context, res *Result, opts Options, format string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.IsNodelink() || format == FormatDOT {
		return renderNodelink(ctx, res, opts, format)
	}

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithLinkBase(opts.LinkBase)}
		if opts.NoAvatars {
			svgOpts = append(svgOpts, sink.WithoutAvatars())
		}
		return sink.RenderSVG(res.Scene, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(res.Scene, sink.WithScale(opts.Scale))
	case FormatJSON:
		return sink.RenderJSON(res.Scene)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %q", format)
}

func renderNodelink(ctx context.Context, res *Result, opts Options, format string) ([]byte, error) {
	dot := nodelink.ToDOT(res.Tree, nodelink.Options{Detailed: opts.Detailed})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q is not supported for %s", format, VizTypeNodelink)
}
