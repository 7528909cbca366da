package surface

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// shades are the palette steps, in the order the palette rows list them.
var shades = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

var palette = map[string][11]string{
	"slate":   {"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"},
	"gray":    {"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"},
	"zinc":    {"#fafafa", "#f4f4f5", "#e4e4e7", "#d4d4d8", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a", "#18181b", "#09090b"},
	"stone":   {"#fafaf9", "#f5f5f4", "#e7e5e4", "#d6d3d1", "#a8a29e", "#78716c", "#57534e", "#44403c", "#292524", "#1c1917", "#0c0a09"},
	"red":     {"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"},
	"orange":  {"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"},
	"amber":   {"#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f", "#451a03"},
	"yellow":  {"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"},
	"green":   {"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"},
	"emerald": {"#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b", "#022c22"},
	"sky":     {"#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e", "#082f49"},
	"blue":    {"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"},
	"indigo":  {"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"},
	"rose":    {"#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337", "#4c0519"},
}

var named = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
}

var utilityPrefixes = []string{"bg-", "text-", "stroke-", "border-", "fill-"}

// Palette resolves color utility tokens against a fixed palette.
// The zero value is ready to use.
type Palette struct{}

// ProbeColor resolves tokens like "bg-emerald-500", "stroke-slate-300/50"
// or "text-[#AABBCC]" to a lowercase "#rrggbb" color. Opacity modifiers
// are ignored.
func (Palette) ProbeColor(token string) (string, bool) {
	c, ok := ParseColor(token)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

// ParseColor resolves a color utility token to a color.
func ParseColor(token string) (colorful.Color, bool) {
	v, ok := trimUtility(token)
	if !ok {
		return colorful.Color{}, false
	}
	if i := strings.LastIndexByte(v, '/'); i > 0 && !strings.HasPrefix(v, "[") {
		v = v[:i]
	}

	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		c, err := colorful.Hex(v[1 : len(v)-1])
		return c, err == nil
	}
	if hex, ok := named[v]; ok {
		c, err := colorful.Hex(hex)
		return c, err == nil
	}

	i := strings.LastIndexByte(v, '-')
	if i <= 0 {
		return colorful.Color{}, false
	}
	row, ok := palette[v[:i]]
	if !ok {
		return colorful.Color{}, false
	}
	for n, s := range shades {
		if s == v[i+1:] {
			c, err := colorful.Hex(row[n])
			return c, err == nil
		}
	}
	return colorful.Color{}, false
}

func trimUtility(token string) (string, bool) {
	for _, p := range utilityPrefixes {
		if v, ok := strings.CutPrefix(token, p); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
