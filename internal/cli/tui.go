package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/famtree/pkg/addmember"
	"github.com/matzehuels/famtree/pkg/family"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	errorTextStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// AddModel - Interactive add-member form
// =============================================================================

// Text fields of the add form.
const (
	fieldQuery = iota
	fieldName
	fieldBirthday
	fieldFirst
	fieldLast
	fieldEmail
	fieldCount
)

// modeFields lists the fields shown in each mode, in focus order.
var modeFields = map[addmember.Mode][]int{
	addmember.ModeExisting: {fieldQuery},
	addmember.ModeManual:   {fieldName, fieldBirthday},
	addmember.ModeInvite:   {fieldFirst, fieldLast, fieldEmail},
}

// maxResults caps the visible search results.
const maxResults = 8

// searchResultsMsg carries results from the searcher into the model.
type searchResultsMsg struct {
	query   string
	results []addmember.Profile
}

// submitDoneMsg reports the outcome of a submission.
type submitDoneMsg struct {
	member *family.Member
	err    error
}

// submitFunc persists a payload and returns the member that was added.
type submitFunc func(ctx context.Context, p addmember.Payload) (*family.Member, error)

// AddModel is the bubbletea model for the add-member form.
type AddModel struct {
	ctx      context.Context
	form     *addmember.Form
	searcher *addmember.Searcher
	submit   submitFunc
	anchor   string

	inputs  []textinput.Model
	focus   int
	results []addmember.Profile
	cursor  int

	err       error
	Added     *family.Member
	Cancelled bool
}

// NewAddModel creates the form model. searcher may be nil, in which case
// existing mode has nothing to search.
func NewAddModel(ctx context.Context, form *addmember.Form, anchor string, searcher *addmember.Searcher, submit submitFunc) AddModel {
	m := AddModel{
		ctx:      ctx,
		form:     form,
		searcher: searcher,
		submit:   submit,
		anchor:   anchor,
		inputs:   make([]textinput.Model, fieldCount),
	}
	for i, p := range []string{"search by name", "full name", "birthday (YYYY-MM-DD)", "first name", "last name", "email"} {
		ti := textinput.New()
		ti.Placeholder = p
		ti.CharLimit = 128
		ti.Prompt = "› "
		m.inputs[i] = ti
	}
	m.focusField(0)
	return m
}

func (m AddModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if msg.query != strings.TrimSpace(m.inputs[fieldQuery].Value()) {
			return m, nil
		}
		m.results = msg.results
		if len(m.results) > maxResults {
			m.results = m.results[:maxResults]
		}
		m.cursor = 0
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.Added = msg.member
		return m, tea.Quit

	case tea.KeyMsg:
		if m.form.Submitting() {
			if msg.String() == "ctrl+c" {
				m.Cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "ctrl+t":
			return m, m.cycleMode()
		case "ctrl+r":
			m.cycleRelation()
			return m, nil
		case "tab", "shift+tab":
			delta := 1
			if msg.String() == "shift+tab" {
				delta = -1
			}
			fields := modeFields[m.form.Mode()]
			return m, m.focusField((m.focus + delta + len(fields)) % len(fields))
		case "up":
			if m.form.Mode() == addmember.ModeExisting && m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.form.Mode() == addmember.ModeExisting && m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			return m, m.enter()
		}
	}

	return m, m.updateInput(msg)
}

// enter selects the highlighted result when it is not already selected,
// otherwise submits.
func (m *AddModel) enter() tea.Cmd {
	if m.form.Mode() == addmember.ModeExisting && len(m.results) > 0 {
		hl := m.results[m.cursor]
		if sel, ok := m.form.Selected(); !ok || sel.ID != hl.ID {
			m.form.Select(hl)
			m.err = nil
			return nil
		}
	}
	if _, err := m.form.Payload(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil

	form, submit, ctx := m.form, m.submit, m.ctx
	return func() tea.Msg {
		var added *family.Member
		err := form.Submit(ctx, func(ctx context.Context, p addmember.Payload) error {
			var err error
			added, err = submit(ctx, p)
			return err
		})
		return submitDoneMsg{member: added, err: err}
	}
}

// updateInput forwards msg to the focused field and syncs the form.
func (m *AddModel) updateInput(msg tea.Msg) tea.Cmd {
	idx := modeFields[m.form.Mode()][m.focus]
	before := m.inputs[idx].Value()

	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	if m.inputs[idx].Value() == before {
		return cmd
	}

	switch idx {
	case fieldQuery:
		m.form.ClearSelection()
		m.results, m.cursor = nil, 0
		if m.searcher != nil {
			m.searcher.Query(m.inputs[fieldQuery].Value())
		}
	case fieldName, fieldBirthday:
		m.form.SetManual(m.inputs[fieldName].Value(), m.inputs[fieldBirthday].Value())
	default:
		m.form.SetInvite(m.inputs[fieldFirst].Value(), m.inputs[fieldLast].Value(), m.inputs[fieldEmail].Value())
	}
	return cmd
}

func (m *AddModel) cycleMode() tea.Cmd {
	modes := addmember.Modes()
	i := slices.Index(modes, m.form.Mode())
	m.form.SetMode(modes[(i+1)%len(modes)])
	m.err = nil
	return m.focusField(0)
}

func (m *AddModel) cycleRelation() {
	rels := addmember.Relations()
	i := slices.Index(rels, m.form.Relation())
	m.form.SetRelation(rels[(i+1)%len(rels)])
}

// focusField focuses the i-th field of the current mode.
func (m *AddModel) focusField(i int) tea.Cmd {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	return m.inputs[modeFields[m.form.Mode()][i]].Focus()
}

func (m AddModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Add %s of %s", m.form.Relation(), m.anchor)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⇥ next field  ^t mode  ^r relation  ⏎ select/save  esc quit"))
	b.WriteString("\n\n")

	tabs := make([]string, 0, 3)
	for _, mode := range addmember.Modes() {
		if mode == m.form.Mode() {
			tabs = append(tabs, tabActiveStyle.Render(string(mode)))
		} else {
			tabs = append(tabs, listDimStyle.Render(string(mode)))
		}
	}
	b.WriteString(strings.Join(tabs, listDimStyle.Render(" · ")))
	b.WriteString("\n\n")

	for _, idx := range modeFields[m.form.Mode()] {
		b.WriteString(m.inputs[idx].View())
		b.WriteString("\n")
	}

	if m.form.Mode() == addmember.ModeExisting {
		b.WriteString(m.resultsView())
	}

	b.WriteString("\n")
	switch {
	case m.form.Submitting():
		b.WriteString(styleIconSpinner.Render("Saving..."))
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errorTextStyle.Render(m.err.Error()))
	case m.form.CanSubmit():
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + listDimStyle.Render("ready to save"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m AddModel) resultsView() string {
	if len(m.results) == 0 {
		switch {
		case m.searcher == nil:
			return listDimStyle.Render("  no directory loaded (use --directory)") + "\n"
		case strings.TrimSpace(m.inputs[fieldQuery].Value()) == "":
			return ""
		}
		return listDimStyle.Render("  no matches") + "\n"
	}

	sel, hasSel := m.form.Selected()
	var b strings.Builder
	b.WriteString("\n")
	for i, p := range m.results {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := " "
		if hasSel && sel.ID == p.ID {
			mark = iconSuccess
		}
		line := cursor + mark + " " + p.Name
		style := listNormalStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(line))
		if p.Slug != "" {
			b.WriteString(" " + listDimStyle.Render("@"+p.Slug))
		}
		b.WriteString("\n")
	}
	return b.String()
}
