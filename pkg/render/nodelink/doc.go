// Package nodelink renders a family window as a plain relationship graph.
//
// # Overview
//
// Where the diagram view draws cards joined by couple lines and sibling
// buses, this view hands the same window to Graphviz: members become boxes,
// parent and child relations become arrows and the spouse relation an
// undirected bold edge. It is useful for checking tree files.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes filled by link status. Invited members are dashed and the root
// has a heavier outline. The root's generation is pinned to one rank.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binaries are needed.
package nodelink
