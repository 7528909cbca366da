package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/addmember"
	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

// addOpts holds the flags of the add command.
type addOpts struct {
	anchor    string
	relation  string
	directory string

	// Non-interactive fields. Setting any of them skips the form.
	profile  string
	name     string
	birthday string
	first    string
	last     string
	email    string
}

func (o addOpts) interactive() bool {
	return o.profile == "" && o.name == "" && o.first == "" && o.last == "" && o.email == ""
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOpts

	cmd := &cobra.Command{
		Use:   "add <tree-file>",
		Short: "Add a parent, spouse, sibling or child to a tree file",
		Long: `Add opens a form for describing the new member: pick an existing profile
from a directory, enter a name manually, or invite someone by email. The
tree file is rewritten in its own format.

Passing --name, --first/--last/--email or --profile skips the form.`,
		Example: `  famtree add ada.json --relation child
  famtree add ada.json --anchor william --relation sibling --name "Mary King"
  famtree add ada.yaml --directory profiles.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			root, err := family.Load(path)
			if err != nil {
				return err
			}
			if err := family.Validate(root); err != nil {
				return err
			}

			anchor := root
			if opts.anchor != "" {
				m, ok := family.NewWindow(root).Find(opts.anchor)
				if !ok {
					return errors.New(errors.ErrCodeMemberNotFound, "member %q is not in the tree's window", opts.anchor)
				}
				anchor = m
			}
			rel, err := addmember.ParseRelation(opts.relation)
			if err != nil {
				return err
			}

			submit := func(ctx context.Context, p addmember.Payload) (*family.Member, error) {
				return c.applyToFile(path, p)
			}

			var added *family.Member
			if opts.interactive() {
				added, err = c.runAddForm(cmd.Context(), opts, anchor, rel, submit)
			} else {
				form := addmember.NewForm(anchor.ID, rel)
				fillForm(form, opts)
				var p addmember.Payload
				if p, err = form.Payload(); err == nil {
					added, err = submit(cmd.Context(), p)
				}
			}
			if err != nil {
				return err
			}
			if added == nil {
				printInfo("Nothing added")
				return nil
			}

			printSuccess("Added %s as %s of %s", added.DisplayName(), added.Relation, anchor.DisplayName())
			printFile(path)
			printNewline()
			printNextStep("Render", appName+" render "+path)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.anchor, "anchor", "", "id of the member to add to (default: the root)")
	fl.StringVarP(&opts.relation, "relation", "r", string(addmember.RelationChild), "parent, spouse, sibling or child")
	fl.StringVar(&opts.directory, "directory", "", "JSON file of profiles to search in existing mode")
	fl.StringVar(&opts.profile, "profile", "", "id of an existing profile in --directory")
	fl.StringVar(&opts.name, "name", "", "full name of a manually added member")
	fl.StringVar(&opts.birthday, "birthday", "", "birthday of a manually added member")
	fl.StringVar(&opts.first, "first", "", "first name of an invited member")
	fl.StringVar(&opts.last, "last", "", "last name of an invited member")
	fl.StringVar(&opts.email, "email", "", "email of an invited member")
	return cmd
}

// fillForm copies the non-interactive flags into form and picks the mode
// they describe.
func fillForm(form *addmember.Form, opts addOpts) {
	switch {
	case opts.profile != "":
		form.SetMode(addmember.ModeExisting)
		form.Select(addmember.Profile{ID: opts.profile, Name: opts.name})
	case opts.first != "" || opts.last != "" || opts.email != "":
		form.SetMode(addmember.ModeInvite)
		form.SetInvite(opts.first, opts.last, opts.email)
	default:
		form.SetMode(addmember.ModeManual)
		form.SetManual(opts.name, opts.birthday)
	}
}

// applyToFile reloads the tree, adds the member and saves the file.
// Reloading keeps a failed save from leaving a half-applied tree behind.
func (c *CLI) applyToFile(path string, p addmember.Payload) (*family.Member, error) {
	root, err := family.Load(path)
	if err != nil {
		return nil, err
	}
	added, err := addmember.Apply(root, p)
	if err != nil {
		return nil, err
	}
	if err := family.Save(path, root); err != nil {
		return nil, err
	}
	c.Logger.Debug("member added", "id", added.ID, "relation", added.Relation, "anchor", p.AnchorID)
	return added, nil
}

// runAddForm runs the interactive form until the member is saved or the
// user quits.
func (c *CLI) runAddForm(ctx context.Context, opts addOpts, anchor *family.Member, rel addmember.Relation, submit submitFunc) (*family.Member, error) {
	var prog *tea.Program
	var searcher *addmember.Searcher
	if opts.directory != "" {
		dir, err := addmember.LoadDirectory(opts.directory)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded directory", "profiles", dir.Len())
		searcher = addmember.NewSearcher(dir, func(q string, results []addmember.Profile) {
			prog.Send(searchResultsMsg{query: q, results: results})
		}, addmember.WithLogger(c.Logger))
		defer searcher.Close()
	}

	model := NewAddModel(ctx, addmember.NewForm(anchor.ID, rel), anchor.DisplayName(), searcher, submit)
	prog = tea.NewProgram(model, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	m := final.(AddModel)
	if m.Cancelled {
		return nil, nil
	}
	return m.Added, nil
}
