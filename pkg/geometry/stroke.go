package geometry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
)

// InheritColor is the stroke used when no concrete color can be resolved.
const InheritColor = "currentColor"

// colorPrefixes are the utility prefixes that carry a color.
var colorPrefixes = []string{"bg-", "text-", "stroke-"}

// thicknessRe matches "h-px", "w-[2px]", "border-2" and similar tokens.
var thicknessRe = regexp.MustCompile(`^(?:[a-z]+-)+(?:(px)|\[(\d+(?:\.\d+)?)px\]|(\d+(?:\.\d+)?))$`)

// ColorClass returns the effective color class of a line: the status
// mapping when the status has one, otherwise the line's own color, otherwise
// the style's default status color.
func ColorClass(cfg connector.Config, line connector.LineStyle, status family.LinkStatus) string {
	if c, ok := cfg.StatusColor(status); ok {
		return c
	}
	if line.Color != "" {
		return line.Color
	}
	return cfg.StatusColors.Default
}

// ColorToken extracts the first color utility token from a class string.
func ColorToken(class string) (string, bool) {
	for _, tok := range strings.Fields(class) {
		for _, p := range colorPrefixes {
			if strings.HasPrefix(tok, p) && len(tok) > len(p) {
				return tok, true
			}
		}
	}
	return "", false
}

// ParseThickness returns the pixel width encoded in a thickness class.
// "px" suffixes are hairlines (1px), "[Npx]" is explicit and a bare number is
// taken as pixels. The first matching token wins; the default is 1.
func ParseThickness(class string) float64 {
	for _, tok := range strings.Fields(class) {
		m := thicknessRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		switch {
		case m[1] != "":
			return 1
		case m[2] != "":
			if v, err := strconv.ParseFloat(m[2], 64); err == nil {
				return v
			}
		case m[3] != "":
			if v, err := strconv.ParseFloat(m[3], 64); err == nil {
				return v
			}
		}
	}
	return 1
}

// ResolveStroke turns a line style into a concrete color, using the
// engine's cache and prober. Missing probers and unknown tokens yield
// [InheritColor].
func (e *Engine) ResolveStroke(line connector.LineStyle, status family.LinkStatus) string {
	tok, ok := ColorToken(ColorClass(e.style, line, status))
	if !ok {
		return InheritColor
	}
	return e.probe(tok)
}

func (e *Engine) probe(token string) string {
	if e.prober == nil {
		// No rendering surface: nothing cached can stay valid.
		clear(e.colors)
		return InheritColor
	}
	if c, ok := e.colors[token]; ok {
		return c
	}
	c, ok := e.prober.ProbeColor(token)
	if !ok || c == "" {
		return InheritColor
	}
	e.colors[token] = c
	return c
}
