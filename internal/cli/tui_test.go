package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/famtree/pkg/addmember"
	"github.com/matzehuels/famtree/pkg/family"
)

// recorder is a submitFunc that remembers the payloads it saw.
type recorder struct {
	payloads []addmember.Payload
	err      error
}

func (r *recorder) submit(_ context.Context, p addmember.Payload) (*family.Member, error) {
	r.payloads = append(r.payloads, p)
	if r.err != nil {
		return nil, r.err
	}
	return p.Member(), nil
}

func newTestModel(rel addmember.Relation, searcher *addmember.Searcher, rec *recorder) AddModel {
	return NewAddModel(context.Background(), addmember.NewForm("ada", rel), "Ada Lovelace", searcher, rec.submit)
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typeText(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// send feeds msgs through Update and returns the model and last command.
func send(t *testing.T, m AddModel, msgs ...tea.Msg) (AddModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(AddModel)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAddModelManualSubmit(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(addmember.RelationChild, nil, rec)

	m, _ = send(t, m,
		key(tea.KeyCtrlT),
		typeText("Grace Hopper"),
		key(tea.KeyTab),
		typeText("1906-12-09"),
	)
	if m.form.Mode() != addmember.ModeManual {
		t.Fatalf("mode = %s, want manual", m.form.Mode())
	}
	if !m.form.CanSubmit() {
		t.Fatal("manual form with a name should be submittable")
	}

	m, cmd := send(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on a complete form should submit")
	}
	m, cmd = send(t, m, cmd())
	if !isQuit(cmd) {
		t.Error("successful submit should quit")
	}

	if len(rec.payloads) != 1 {
		t.Fatalf("submitted %d payloads, want 1", len(rec.payloads))
	}
	p := rec.payloads[0]
	if p.Type != addmember.ModeManual || p.Name != "Grace Hopper" || p.Birthday != "1906-12-09" {
		t.Errorf("payload = %+v", p)
	}
	if p.AnchorID != "ada" || p.Relation != addmember.RelationChild {
		t.Errorf("payload target = %s of %s", p.Relation, p.AnchorID)
	}
	if m.Added == nil || m.Added.Name != "Grace Hopper" {
		t.Errorf("Added = %+v", m.Added)
	}
	if m.form.Submitting() {
		t.Error("submitting flag still set after submit")
	}
}

func TestAddModelExistingSelectThenSubmit(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(addmember.RelationSibling, nil, rec)
	profiles := []addmember.Profile{
		{ID: "p1", Name: "Mary King"},
		{ID: "p2", Name: "Mary Somerville", Slug: "mary-s"},
	}

	m, _ = send(t, m,
		typeText("mary"),
		searchResultsMsg{query: "mary", results: profiles},
		key(tea.KeyDown),
	)
	if len(m.results) != 2 || m.cursor != 1 {
		t.Fatalf("results = %d, cursor = %d", len(m.results), m.cursor)
	}

	m, cmd := send(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("first enter should only select")
	}
	if sel, ok := m.form.Selected(); !ok || sel.ID != "p2" {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	if !strings.Contains(m.View(), "@mary-s") {
		t.Error("view should list the result slug")
	}

	_, cmd = send(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("second enter should submit")
	}
	cmd()
	if len(rec.payloads) != 1 || rec.payloads[0].ProfileID != "p2" || rec.payloads[0].ProfileSlug != "mary-s" {
		t.Errorf("payloads = %+v", rec.payloads)
	}
}

func TestAddModelEditingQueryClearsSelection(t *testing.T) {
	m := newTestModel(addmember.RelationChild, nil, &recorder{})
	m, _ = send(t, m,
		typeText("mar"),
		searchResultsMsg{query: "mar", results: []addmember.Profile{{ID: "p1", Name: "Mary King"}}},
		key(tea.KeyEnter),
	)
	if !m.form.CanSubmit() {
		t.Fatal("selection should enable submit")
	}

	m, _ = send(t, m, typeText("y"))
	if _, ok := m.form.Selected(); ok {
		t.Error("editing the query should drop the selection")
	}
	if m.form.CanSubmit() || len(m.results) != 0 {
		t.Error("editing the query should reset results and disable submit")
	}
}

func TestAddModelIgnoresStaleResults(t *testing.T) {
	m := newTestModel(addmember.RelationChild, nil, &recorder{})
	m, _ = send(t, m,
		typeText("mary"),
		searchResultsMsg{query: "mar", results: []addmember.Profile{{ID: "p1", Name: "Mary King"}}},
	)
	if len(m.results) != 0 {
		t.Errorf("stale results were shown: %+v", m.results)
	}
}

func TestAddModelInvalidSubmitShowsError(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(addmember.RelationChild, nil, rec)

	m, _ = send(t, m, key(tea.KeyCtrlT), key(tea.KeyCtrlT), typeText("Grace"))
	if m.form.Mode() != addmember.ModeInvite {
		t.Fatalf("mode = %s, want invite", m.form.Mode())
	}

	m, cmd := send(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Error("incomplete invite must not submit")
	}
	if m.err == nil || !strings.Contains(m.View(), iconError) {
		t.Error("incomplete invite should show an error")
	}
	if len(rec.payloads) != 0 {
		t.Error("submit func called for an invalid form")
	}
}

func TestAddModelSubmitErrorKeepsForm(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	m := newTestModel(addmember.RelationChild, nil, rec)

	m, cmd := send(t, m, key(tea.KeyCtrlT), typeText("Grace Hopper"), key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	m, cmd = send(t, m, cmd())
	if isQuit(cmd) {
		t.Error("failed submit should not quit")
	}
	if m.Added != nil || !strings.Contains(m.View(), "disk full") {
		t.Error("failed submit should surface the error")
	}
	if !m.form.CanSubmit() {
		t.Error("form should be submittable again after a failure")
	}
}

func TestAddModelCycleRelation(t *testing.T) {
	m := newTestModel(addmember.RelationChild, nil, &recorder{})
	want := []addmember.Relation{
		addmember.RelationParent,
		addmember.RelationSpouse,
		addmember.RelationSibling,
		addmember.RelationChild,
	}
	for _, rel := range want {
		m, _ = send(t, m, key(tea.KeyCtrlR))
		if got := m.form.Relation(); got != rel {
			t.Fatalf("relation = %s, want %s", got, rel)
		}
	}
	if !strings.Contains(m.View(), "Add child of Ada Lovelace") {
		t.Errorf("title does not follow relation: %q", m.View())
	}
}

func TestAddModelEscCancels(t *testing.T) {
	m := newTestModel(addmember.RelationChild, nil, &recorder{})
	m, cmd := send(t, m, key(tea.KeyEsc))
	if !m.Cancelled || !isQuit(cmd) {
		t.Error("esc should cancel and quit")
	}
}

func TestAddCommandNonInteractive(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, "ada.json")

	if err := runCLI(t, "add", path, "--anchor", "william", "--relation", "sibling", "--name", "Mary King"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := runCLI(t, "add", path, "-r", "child", "--first", "Ann", "--last", "King", "--email", "ann@example.com"); err != nil {
		t.Fatalf("add invite: %v", err)
	}

	root, err := family.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Spouse.Siblings) != 1 || root.Spouse.Siblings[0].Name != "Mary King" {
		t.Errorf("spouse siblings = %+v", root.Spouse.Siblings)
	}
	if root.Spouse.Siblings[0].Status != family.StatusManual {
		t.Errorf("manual member status = %q", root.Spouse.Siblings[0].Status)
	}
	last := root.Children[len(root.Children)-1]
	if last.Name != "Ann King" || last.Status != family.StatusInvitePending {
		t.Errorf("invited child = %+v", last)
	}
}

func TestAddCommandErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, "ada.json")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown anchor", []string{"add", path, "--anchor", "nobody", "--name", "X"}},
		{"bad relation", []string{"add", path, "-r", "cousin", "--name", "X"}},
		{"second spouse", []string{"add", path, "-r", "spouse", "--name", "X"}},
		{"bad email", []string{"add", path, "--first", "A", "--last", "B", "--email", "nope"}},
		{"missing tree", []string{"add", filepath.Join(dir, "nope.json"), "--name", "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
