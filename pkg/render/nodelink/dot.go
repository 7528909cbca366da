package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/famtree/pkg/family"
)

// Options configures relationship graph rendering.
type Options struct {
	// Detailed adds birthday, relation and status to node labels.
	// When false, only the display name is shown.
	Detailed bool
}

// statusFill maps link statuses onto node fill colors.
var statusFill = map[family.LinkStatus]string{
	family.StatusLinked:        "#d1fae5",
	family.StatusInvitePending: "#fef3c7",
	family.StatusManual:        "#f1f5f9",
}

// ToDOT converts the window rooted at root to Graphviz DOT. Parents point
// at the root and its siblings, the spouse edge is undirected and the root
// generation shares one rank.
func ToDOT(root *family.Member, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	w := family.NewWindow(root)

	seen := make(map[string]bool)
	for _, m := range w.Members() {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", m.ID, strings.Join(fmtAttrs(m, m == root, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	generation := append(w.Siblings(), root)
	for _, p := range w.Parents {
		for _, c := range generation {
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.ID, c.ID)
		}
	}
	if w.Spouse != nil {
		fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=bold];\n", root.ID, w.Spouse.ID)
	}
	for _, c := range w.Children {
		fmt.Fprintf(&buf, "  %q -> %q;\n", root.ID, c.ID)
		if w.Spouse != nil {
			fmt.Fprintf(&buf, "  %q -> %q;\n", w.Spouse.ID, c.ID)
		}
	}

	same := make([]string, 0, len(generation)+1)
	for _, m := range generation {
		same = append(same, strconv.Quote(m.ID))
	}
	if w.Spouse != nil {
		same = append(same, strconv.Quote(w.Spouse.ID))
	}
	if len(same) > 1 {
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(same, "; "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(m *family.Member, detailed bool) string {
	name := m.DisplayName()
	if !detailed {
		return name
	}

	var parts []string
	if m.Birthday != "" {
		parts = append(parts, "born: "+m.Birthday)
	}
	if m.Relation != "" {
		parts = append(parts, "relation: "+m.Relation)
	}
	if m.Status != "" {
		parts = append(parts, "status: "+string(m.Status))
	}
	if len(parts) == 0 {
		return name
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(m *family.Member, isRoot, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(m, detailed))}
	if fill, ok := statusFill[m.Status]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if m.Status == family.StatusInvitePending {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	if isRoot {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's root element to a zero-origin
// viewBox with matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
