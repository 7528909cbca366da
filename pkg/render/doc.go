// Package render groups the output encoders for laid-out family trees.
//
// # Diagram Output
//
// The [sink] subpackage encodes a [sink.Scene] (cards plus connector
// segments, as produced by the diagram engine) into three formats:
//
//   - SVG via ajstarks/svgo: cards with avatars or initials, profile links,
//     and one connector overlay group drawn after the cards
//   - PNG via fogleman/gg: the same geometry rasterized at a pixel scale
//   - JSON: the scene as data, for clients that draw their own cards
//
//	svg := sink.RenderSVG(scene, sink.WithLinkBase("/family/"))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// # Relationship Graphs
//
// The [nodelink] subpackage renders the same tree as a plain relationship
// graph through Graphviz. It needs no layout pass and is useful for
// checking tree files.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/famtree/pkg/render/sink
// [nodelink]: github.com/matzehuels/famtree/pkg/render/nodelink
package render
