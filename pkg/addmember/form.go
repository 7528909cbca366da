package addmember

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/famtree/pkg/errors"
)

// SubmitFunc receives a finished payload. Persisting it is up to the host.
type SubmitFunc func(ctx context.Context, p Payload) error

// Form holds the state of the add-member dialog. It is safe for
// concurrent use.
type Form struct {
	mu sync.Mutex

	anchorID string
	relation Relation
	mode     Mode

	selected *Profile

	name     string
	birthday string

	firstName string
	lastName  string
	email     string

	submitting bool
}

// NewForm returns an empty form adding a rel of anchorID in existing mode.
func NewForm(anchorID string, rel Relation) *Form {
	return &Form{anchorID: anchorID, relation: rel, mode: ModeExisting}
}

// Mode returns the current mode.
func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// SetMode switches mode. Fields of other modes are kept.
func (f *Form) SetMode(m Mode) {
	f.mu.Lock()
	f.mode = m
	f.mu.Unlock()
}

// Relation returns the target relation.
func (f *Form) Relation() Relation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relation
}

// SetRelation changes the target relation.
func (f *Form) SetRelation(r Relation) {
	f.mu.Lock()
	f.relation = r
	f.mu.Unlock()
}

// Select picks a search result.
func (f *Form) Select(p Profile) {
	f.mu.Lock()
	f.selected = &p
	f.mu.Unlock()
}

// ClearSelection drops the picked search result.
func (f *Form) ClearSelection() {
	f.mu.Lock()
	f.selected = nil
	f.mu.Unlock()
}

// Selected returns the picked search result, if any.
func (f *Form) Selected() (Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return Profile{}, false
	}
	return *f.selected, true
}

// SetManual sets the manual-mode fields.
func (f *Form) SetManual(name, birthday string) {
	f.mu.Lock()
	f.name, f.birthday = name, birthday
	f.mu.Unlock()
}

// SetInvite sets the invite-mode fields.
func (f *Form) SetInvite(first, last, email string) {
	f.mu.Lock()
	f.firstName, f.lastName, f.email = first, last, email
	f.mu.Unlock()
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// CanSubmit reports whether the current mode is complete and nothing is
// being submitted.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return false
	}
	return f.payload().Validate() == nil
}

// Payload builds the payload for the current mode.
func (f *Form) Payload() (Payload, error) {
	f.mu.Lock()
	p := f.payload()
	f.mu.Unlock()
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func (f *Form) payload() Payload {
	p := Payload{Type: f.mode, Relation: f.relation, AnchorID: f.anchorID}
	switch f.mode {
	case ModeExisting:
		if f.selected != nil {
			p.ProfileID = f.selected.ID
			p.ProfileSlug = f.selected.Slug
			p.Name = f.selected.Name
			p.AvatarURL = f.selected.AvatarURL
		}
	case ModeManual:
		p.Name = strings.TrimSpace(f.name)
		p.Birthday = strings.TrimSpace(f.birthday)
	case ModeInvite:
		p.FirstName = strings.TrimSpace(f.firstName)
		p.LastName = strings.TrimSpace(f.lastName)
		p.Email = strings.TrimSpace(f.email)
	}
	return p
}

// Submit validates the form and hands the payload to fn. The submitting
// flag is set for the duration of fn and cleared however fn returns.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc) error {
	p, err := f.Payload()
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidInput, "submission already in progress")
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()
	return fn(ctx, p)
}

// Reset clears every field and the selection, keeping anchor and relation.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeExisting
	f.selected = nil
	f.name, f.birthday = "", ""
	f.firstName, f.lastName, f.email = "", "", ""
}
