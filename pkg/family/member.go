package family

import "math"

// LinkStatus describes how a member is connected to a real profile.
// It only affects connector color.
type LinkStatus string

// Link statuses. The empty status means "unknown" and strokes with the
// style's default color.
const (
	StatusLinked        LinkStatus = "linked"
	StatusManual        LinkStatus = "manual"
	StatusInvitePending LinkStatus = "invite_pending"
)

// Valid reports whether s is empty or one of the known statuses.
func (s LinkStatus) Valid() bool {
	switch s {
	case "", StatusLinked, StatusManual, StatusInvitePending:
		return true
	}
	return false
}

// Member is a node of the tree view.
//
// The structure is a display view, not a normalized graph: the same person
// may appear in several nested positions. Nothing here deduplicates or
// detects cycles; consumers only read the root's own relations.
type Member struct {
	ID          string     `json:"id" yaml:"id" toml:"id"`
	Name        string     `json:"name" yaml:"name" toml:"name"`
	Birthday    string     `json:"birthday,omitempty" yaml:"birthday,omitempty" toml:"birthday,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty" toml:"avatar_url,omitempty"`
	Relation    string     `json:"relation,omitempty" yaml:"relation,omitempty" toml:"relation,omitempty"`
	Status      LinkStatus `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	ProfileID   string     `json:"profile_id,omitempty" yaml:"profile_id,omitempty" toml:"profile_id,omitempty"`
	ProfileSlug string     `json:"profile_slug,omitempty" yaml:"profile_slug,omitempty" toml:"profile_slug,omitempty"`

	Parents  []*Member `json:"parents,omitempty" yaml:"parents,omitempty" toml:"parents,omitempty"`
	Siblings []*Member `json:"siblings,omitempty" yaml:"siblings,omitempty" toml:"siblings,omitempty"`
	Children []*Member `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Spouse   *Member   `json:"spouse,omitempty" yaml:"spouse,omitempty" toml:"spouse,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (m *Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// NavigationTarget returns where clicking the member's card should lead.
// The profile slug wins over the raw profile id.
func (m *Member) NavigationTarget() (string, bool) {
	if m == nil {
		return "", false
	}
	if m.ProfileSlug != "" {
		return m.ProfileSlug, true
	}
	if m.ProfileID != "" {
		return m.ProfileID, true
	}
	return "", false
}

// SplitSiblings divides siblings into the cards shown left and right of the
// root. The first ceil(n/2) go left; order is preserved on both sides.
func SplitSiblings(siblings []*Member) (left, right []*Member) {
	mid := int(math.Ceil(float64(len(siblings)) / 2))
	return siblings[:mid:mid], siblings[mid:]
}

// Window is the fixed one-generation neighborhood of a root member.
type Window struct {
	Root          *Member
	Parents       []*Member
	SiblingsLeft  []*Member
	SiblingsRight []*Member
	Spouse        *Member
	Children      []*Member
}

// NewWindow reads the root's own relations. Nil entries are dropped; deeper
// generations are never visited.
func NewWindow(root *Member) Window {
	if root == nil {
		return Window{}
	}
	siblings := compact(root.Siblings)
	left, right := SplitSiblings(siblings)
	return Window{
		Root:          root,
		Parents:       compact(root.Parents),
		SiblingsLeft:  left,
		SiblingsRight: right,
		Spouse:        root.Spouse,
		Children:      compact(root.Children),
	}
}

// Siblings returns the siblings in their original order.
func (w Window) Siblings() []*Member {
	out := make([]*Member, 0, len(w.SiblingsLeft)+len(w.SiblingsRight))
	out = append(out, w.SiblingsLeft...)
	return append(out, w.SiblingsRight...)
}

// Members returns every member of the window in display order: parents,
// left siblings, root, spouse, right siblings, children.
func (w Window) Members() []*Member {
	if w.Root == nil {
		return nil
	}
	out := make([]*Member, 0, len(w.Parents)+len(w.SiblingsLeft)+len(w.SiblingsRight)+len(w.Children)+2)
	out = append(out, w.Parents...)
	out = append(out, w.SiblingsLeft...)
	out = append(out, w.Root)
	if w.Spouse != nil {
		out = append(out, w.Spouse)
	}
	out = append(out, w.SiblingsRight...)
	return append(out, w.Children...)
}

// Find returns the window member with the given id.
func (w Window) Find(id string) (*Member, bool) {
	for _, m := range w.Members() {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

func compact(in []*Member) []*Member {
	out := make([]*Member, 0, len(in))
	for _, m := range in {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
