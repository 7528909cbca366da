package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
)

func sampleTree() *family.Member {
	return &family.Member{
		ID:     "ada",
		Name:   "Ada Lovelace",
		Status: family.StatusLinked,
		Parents: []*family.Member{
			{ID: "byron", Name: "Lord Byron"},
			{ID: "annabella", Name: "Anne Isabella Milbanke"},
		},
		Spouse: &family.Member{ID: "william", Name: "William King"},
		Children: []*family.Member{
			{ID: "byron-jr", Name: "Byron King-Noel"},
			{ID: "ralph", Name: "Ralph King-Milbanke", Status: family.StatusManual},
		},
	}
}

// writeTree saves sampleTree under dir and returns its path.
func writeTree(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := family.Save(path, sampleTree()); err != nil {
		t.Fatalf("save tree: %v", err)
	}
	return path
}

// runCLI executes the root command with args and quiet status output.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	captureStdout(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png,json", []string{"svg", "png", "json"}},
		{" SVG , dot ", []string{"svg", "dot"}},
		{"svg,,png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		tree     string
		output   string
		format   string
		multi    bool
		wantPath string
	}{
		{"next to tree", "trees/ada.json", "", "svg", false, "trees/ada.svg"},
		{"explicit single", "ada.json", "out/family.svg", "svg", false, "out/family.svg"},
		{"explicit keeps name for single", "ada.json", "family", "png", false, "family"},
		{"multi uses base", "ada.json", "out/family.svg", "png", true, "out/family.png"},
		{"multi next to tree", "ada.yaml", "", "json", true, "ada.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.tree, tt.output, tt.format, tt.multi); got != tt.wantPath {
				t.Errorf("outputPath() = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestRenderCommandWritesFiles(t *testing.T) {
	dir := t.TempDir()
	tree := writeTree(t, dir, "ada.yaml")

	if err := runCLI(t, "render", tree, "-f", "svg,json,dot", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "ada.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}

	var scene map[string]any
	data, err := os.ReadFile(filepath.Join(dir, "ada.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Errorf("json artifact does not decode: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(dir, "ada.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !bytes.Contains(dot, []byte(`"ada"`)) {
		t.Error("dot artifact missing root node")
	}
}

func TestRenderCommandUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	tree := writeTree(t, dir, "ada.json")
	out := filepath.Join(dir, "first.svg")

	if err := runCLI(t, "render", tree, "-o", out); err != nil {
		t.Fatalf("first render: %v", err)
	}
	cacheRoot, _ := cacheDir()
	entries, err := os.ReadDir(cacheRoot)
	if err != nil || len(entries) == 0 {
		t.Fatalf("render did not populate the cache at %s: %v", cacheRoot, err)
	}

	second := filepath.Join(dir, "second.svg")
	if err := runCLI(t, "render", tree, "-o", second); err != nil {
		t.Fatalf("second render: %v", err)
	}
	a, _ := os.ReadFile(out)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Error("cached render differs from the fresh one")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tree := writeTree(t, dir, "ada.json")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.json"), "--no-cache"}},
		{"bad format", []string{"render", tree, "-f", "pdf", "--no-cache"}},
		{"bad preset", []string{"render", tree, "-p", "neon", "--no-cache"}},
		{"nodelink json", []string{"render", tree, "--viz", "nodelink", "-f", "json", "--no-cache"}},
		{"no args", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStyleCommand(t *testing.T) {
	want := connector.Preset(connector.PresetCompact)

	decoders := map[string]func([]byte, *connector.Config) error{
		"json": func(b []byte, c *connector.Config) error { return json.Unmarshal(b, c) },
		"yaml": func(b []byte, c *connector.Config) error { return yaml.Unmarshal(b, c) },
		"toml": func(b []byte, c *connector.Config) error { return toml.Unmarshal(b, c) },
	}

	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"style", "compact", "-o", format})
			if err := root.Execute(); err != nil {
				t.Fatalf("style: %v", err)
			}

			var got connector.Config
			if err := decode(out.Bytes(), &got); err != nil {
				t.Fatalf("decode %s: %v", format, err)
			}
			if got != want {
				t.Errorf("style %s = %+v, want %+v", format, got, want)
			}
		})
	}
}

func TestStyleCommandTable(t *testing.T) {
	var out bytes.Buffer
	if err := writeStyle(&out, "default", connector.Preset(connector.PresetDefault), styleOutputTable); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"couple_line", "sibling_bus", "vertical_gap_px", "invite_pending"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestStyleCommandOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.toml")
	if err := os.WriteFile(path, []byte("[trunk]\ncolor = \"stroke-rose-500\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"style", "--override", path, "-o", "json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("style: %v", err)
	}

	var got connector.Config
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Trunk.Color != "stroke-rose-500" {
		t.Errorf("trunk color = %q, want override", got.Trunk.Color)
	}
	if got.Drop != connector.Preset(connector.PresetDefault).Drop {
		t.Error("override touched an unrelated line style")
	}
}

func TestStyleCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"style", "neon"}},
		{"unknown output", []string{"style", "-o", "xml"}},
		{"missing override", []string{"style", "--override", filepath.Join(t.TempDir(), "nope.toml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
