// Package connector resolves connector styles for the family diagram.
//
// # Overview
//
// A [Config] describes every connector kind the geometry engine draws:
//
//   - CoupleLine: the horizontal line between two parents
//   - Trunk: the vertical drop from a unit's junction to its sibling bus
//   - SiblingBus: the horizontal line spanning a unit's children
//   - Drop: the vertical line from the bus to each child card
//
// Each carries a thickness token ("h-px", "w-[2px]", "border-2") and a color
// class ("bg-slate-300"). StatusColors maps member link statuses onto color
// classes, which take precedence over a line's own color.
//
// # Presets
//
// Three complete presets are built in: default, compact and contrast.
// [Resolve] picks one by name and merges an optional [Override] into it:
//
//	cfg := connector.Resolve("compact", &connector.Override{
//	    Anchors: &connector.AnchorsOverride{VerticalGapPx: connector.Float(32)},
//	})
//
// Unknown names resolve to the default preset. Resolve never fails and has
// no side effects.
package connector
