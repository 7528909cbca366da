package addmember

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

// Relation is where the new member goes relative to the anchor.
type Relation string

// Relations.
const (
	RelationParent  Relation = "parent"
	RelationChild   Relation = "child"
	RelationSibling Relation = "sibling"
	RelationSpouse  Relation = "spouse"
)

// Relations returns every relation in display order.
func Relations() []Relation {
	return []Relation{RelationParent, RelationSpouse, RelationSibling, RelationChild}
}

// ParseRelation parses a relation name.
func ParseRelation(s string) (Relation, error) {
	r := Relation(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Relations(), r) {
		return "", errors.New(errors.ErrCodeInvalidRelation,
			"unknown relation %q (valid: parent, spouse, sibling, child)", s)
	}
	return r, nil
}

// Mode selects how the new member is described.
type Mode string

// Modes.
const (
	ModeExisting Mode = "existing"
	ModeManual   Mode = "manual"
	ModeInvite   Mode = "invite"
)

// Modes returns every mode in display order.
func Modes() []Mode { return []Mode{ModeExisting, ModeManual, ModeInvite} }

// Profile is a search result.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// Payload is handed to the completion callback. Type decides which of the
// optional fields are set.
type Payload struct {
	Type     Mode     `json:"type"`
	Relation Relation `json:"relation"`
	AnchorID string   `json:"anchor_id"`

	// existing
	ProfileID   string `json:"profile_id,omitempty"`
	ProfileSlug string `json:"profile_slug,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	// existing, manual
	Name string `json:"name,omitempty"`

	// manual
	Birthday string `json:"birthday,omitempty"`

	// invite
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Validate checks that the fields required by p.Type are present.
func (p Payload) Validate() error {
	if p.AnchorID == "" {
		return errors.New(errors.ErrCodeInvalidPayload, "anchor member is required")
	}
	if _, err := ParseRelation(string(p.Relation)); err != nil {
		return err
	}
	switch p.Type {
	case ModeExisting:
		if p.ProfileID == "" {
			return errors.New(errors.ErrCodeInvalidPayload, "no profile selected")
		}
	case ModeManual:
		if strings.TrimSpace(p.Name) == "" {
			return errors.New(errors.ErrCodeInvalidPayload, "name is required")
		}
	case ModeInvite:
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return errors.New(errors.ErrCodeInvalidPayload, "first and last name are required")
		}
		return errors.ValidateEmail(p.Email)
	default:
		return errors.New(errors.ErrCodeInvalidPayload, "unknown payload type %q", p.Type)
	}
	return nil
}

// Member builds the tree node described by p. Existing profiles keep their
// profile id as member id; manual and invited members get a fresh UUID.
func (p Payload) Member() *family.Member {
	m := &family.Member{Relation: string(p.Relation)}
	switch p.Type {
	case ModeExisting:
		m.ID = p.ProfileID
		m.Name = p.Name
		m.AvatarURL = p.AvatarURL
		m.ProfileID = p.ProfileID
		m.ProfileSlug = p.ProfileSlug
		m.Status = family.StatusLinked
	case ModeManual:
		m.ID = uuid.NewString()
		m.Name = strings.TrimSpace(p.Name)
		m.Birthday = strings.TrimSpace(p.Birthday)
		m.Status = family.StatusManual
	case ModeInvite:
		m.ID = uuid.NewString()
		m.Name = strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)
		m.Status = family.StatusInvitePending
	}
	return m
}

// Apply adds the member described by p to the tree rooted at root. The
// anchor must be a member of root's window. Apply mutates the tree.
func Apply(root *family.Member, p Payload) (*family.Member, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "tree has no root")
	}
	anchor, ok := family.NewWindow(root).Find(p.AnchorID)
	if !ok {
		return nil, errors.New(errors.ErrCodeMemberNotFound, "anchor %q is not in the tree", p.AnchorID)
	}
	m := p.Member()
	if _, dup := family.NewWindow(root).Find(m.ID); dup {
		return nil, errors.New(errors.ErrCodeInvalidPayload, "member %q is already in the tree", m.ID)
	}

	switch p.Relation {
	case RelationParent:
		anchor.Parents = append(anchor.Parents, m)
	case RelationChild:
		anchor.Children = append(anchor.Children, m)
	case RelationSibling:
		anchor.Siblings = append(anchor.Siblings, m)
	case RelationSpouse:
		if anchor.Spouse != nil {
			return nil, errors.New(errors.ErrCodeInvalidPayload,
				"%s already has a spouse", anchor.DisplayName())
		}
		anchor.Spouse = m
	}
	return m, nil
}
