// Package geometry computes the connector lines of a family diagram.
//
// # Overview
//
// Cards are laid out by a rendering surface; this package never positions
// them. Each pass it measures the rendered cards through a [Surface],
// converts their client boxes into content coordinates (so results are
// stable under scrolling) and derives every line from those rectangles:
//
//	couple line   between the two leftmost parents, inset by CoupleInsetPx
//	junction      midpoint of the couple line, or a lone parent's bottom-center
//	trunk         junction down to the sibling bus
//	sibling bus   at min(child top) - VerticalGapPx, spanning children and junction
//	drop          bus down to each child's top-center
//
// Two units are drawn: the root's parents over [siblings..., root], and
// the root (plus spouse) over the root's children.
//
// # Colors
//
// Couple lines, trunks and buses use the unit's status, the first status
// found on its parents. Drops use each child's own status. Color classes
// are reduced to a utility token and resolved through a [ColorProber];
// results are cached per [Engine]. Without a prober lines inherit the
// current color.
//
// # Failure model
//
// Nothing here returns an error. Members without a measured card contribute
// no segments, and unparsable thickness or color classes fall back to 1px
// and [InheritColor].
package geometry
