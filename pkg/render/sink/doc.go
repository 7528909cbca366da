// Package sink writes a laid-out family diagram to an output format.
//
// # Overview
//
// A sink turns a [Scene] (cards from the surface plus the connector
// geometry) into bytes:
//
//   - SVG: cards as groups with text and avatar, connectors as paths
//   - PNG: raster image drawn with gg
//   - JSON: cards and segments for external tools
//
// Connectors are always drawn after the cards so the overlay sits on top,
// and the canvas covers the full scrollable size so off-screen cards and
// lines are included.
//
// # SVG Output
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithLinkBase("https://example.com/people/"),
//	)
//
// Every card is a group with id "card-<member>", every segment a path with
// id "seg-<segment>", so the output can be styled or scripted.
//
// # PNG Output
//
// [RenderPNG] draws at 2x by default ([WithScale]). Strokes that inherit
// the current color are drawn in the ink color ([WithInk]).
package sink
