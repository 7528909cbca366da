package family

import (
	"net/url"
	"strings"
)

// AvatarResolver maps a raw avatar reference onto a display-ready URL.
// An empty result means "no avatar".
type AvatarResolver interface {
	ResolveAvatar(raw string) string
}

// AvatarResolverFunc adapts a function to [AvatarResolver].
type AvatarResolverFunc func(raw string) string

// ResolveAvatar calls f(raw).
func (f AvatarResolverFunc) ResolveAvatar(raw string) string { return f(raw) }

// PrefixResolver joins relative avatar paths onto BaseURL.
// Absolute http(s) and data URLs pass through unchanged.
type PrefixResolver struct {
	BaseURL string
}

// ResolveAvatar implements [AvatarResolver].
func (p PrefixResolver) ResolveAvatar(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "data:") {
		return raw
	}
	if p.BaseURL == "" {
		return ""
	}
	u, err := url.JoinPath(p.BaseURL, raw)
	if err != nil {
		return ""
	}
	return u
}

// ResolveAvatar applies r to the member's avatar, treating a nil resolver as
// pass-through.
func ResolveAvatar(r AvatarResolver, m *Member) string {
	if m == nil {
		return ""
	}
	if r == nil {
		return m.AvatarURL
	}
	return r.ResolveAvatar(m.AvatarURL)
}
