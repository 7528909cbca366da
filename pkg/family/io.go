package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/famtree/pkg/errors"
)

// Tree file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatFromPath infers the tree format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported tree file extension: %q", filepath.Ext(path))
}

// Load reads and validates the tree rooted in the file at path.
func Load(path string) (*Member, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open tree %s", path)
		}
		return nil, fmt.Errorf("open tree: %w", err)
	}
	defer f.Close()

	root, err := Read(f, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Read decodes a tree in the given format. It does not validate.
func Read(r io.Reader, format string) (*Member, error) {
	var root Member
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&root); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode json tree")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&root); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode yaml tree")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&root); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode toml tree")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format: %q", format)
	}
	return &root, nil
}

// Marshal encodes a tree as indented JSON. Trees whose members point back
// at each other cannot be marshaled; use [Fingerprint] to identify them.
func Marshal(root *Member) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a tree in the given format.
func Write(w io.Writer, root *Member, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(root)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format: %q", format)
}

// Save writes root to path in the format implied by its extension. The file
// is replaced atomically.
func Save(path string, root *Member) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, root, format); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return os.Rename(tmp, path)
}

// Validate checks the root and every member of its window. A member may
// appear in more than one position.
func Validate(root *Member) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidTree, "tree has no root member")
	}
	for _, m := range NewWindow(root).Members() {
		if err := errors.ValidateMemberID(m.ID); err != nil {
			return err
		}
		if !m.Status.Valid() {
			return errors.New(errors.ErrCodeInvalidTree, "member %q has unknown status %q", m.ID, m.Status)
		}
	}
	return nil
}

// windowEntry is one member of a window without its relations.
type windowEntry struct {
	Role        string     `json:"role"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Birthday    string     `json:"birthday,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Relation    string     `json:"relation,omitempty"`
	Status      LinkStatus `json:"status,omitempty"`
	ProfileID   string     `json:"profile_id,omitempty"`
	ProfileSlug string     `json:"profile_slug,omitempty"`
}

// Fingerprint encodes the window of root as flat JSON: every member with
// its position and own fields, in display order, relations omitted. It is
// defined for any view, including ones whose members point back at each
// other, and differs whenever anything drawn from the window differs.
func Fingerprint(root *Member) []byte {
	w := NewWindow(root)
	var entries []windowEntry
	add := func(role string, ms ...*Member) {
		for _, m := range ms {
			entries = append(entries, windowEntry{
				Role:        role,
				ID:          m.ID,
				Name:        m.Name,
				Birthday:    m.Birthday,
				AvatarURL:   m.AvatarURL,
				Relation:    m.Relation,
				Status:      m.Status,
				ProfileID:   m.ProfileID,
				ProfileSlug: m.ProfileSlug,
			})
		}
	}
	if w.Root != nil {
		add("parent", w.Parents...)
		add("sibling-left", w.SiblingsLeft...)
		add("root", w.Root)
		if w.Spouse != nil {
			add("spouse", w.Spouse)
		}
		add("sibling-right", w.SiblingsRight...)
		add("child", w.Children...)
	}
	data, _ := json.Marshal(entries)
	return data
}
