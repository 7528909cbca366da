// Package family defines the member tree that famtree renders.
//
// # Overview
//
// A [Member] carries display fields (name, birthday, avatar, relation label),
// a [LinkStatus] that selects its connector color, and four relationship
// fields: parents, siblings, children and an optional spouse.
//
// The tree is a view rather than a normalized graph. A person may appear in
// several places and nothing is deduplicated. Rendering only ever reads one
// fixed [Window] off the root:
//
//	w := family.NewWindow(root)
//	for _, m := range w.Members() {
//	    fmt.Println(m.DisplayName())
//	}
//
// Deeper generations are the host's concern: re-root on a parent or child
// and render again.
//
// # Files
//
// Trees are read from JSON, YAML or TOML with [Load] and checked with
// [Validate].
package family
