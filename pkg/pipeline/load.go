package pipeline

import (
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
)

// loadTree returns the inline tree when set, otherwise the file at
// TreePath. Both are validated.
func loadTree(opts Options) (*family.Member, error) {
	if opts.Tree != nil {
		if err := family.Validate(opts.Tree); err != nil {
			return nil, err
		}
		return opts.Tree, nil
	}
	return family.Load(opts.TreePath)
}

// resolveStyle merges the override, inline or from OverridePath, onto the
// preset. An inline override wins over the file.
func resolveStyle(opts Options) (connector.Config, error) {
	o := opts.Override
	if o == nil && opts.OverridePath != "" {
		var err error
		if o, err = connector.LoadOverride(opts.OverridePath); err != nil {
			return connector.Config{}, err
		}
	}
	return connector.Resolve(opts.Preset, o), nil
}
