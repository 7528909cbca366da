package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
	// StyleKey identifies a resolved connector style.
	StyleKey(preset, overrideHash string) string
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
// Scroll position is deliberately absent: content coordinates do not
// depend on it.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	VizType    string  `json:"viz_type"`
	Preset     string  `json:"preset"`
	StyleHash  string  `json:"style_hash"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	AvatarBase string  `json:"avatar_base,omitempty"`
	LinkBase   string  `json:"link_base,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// StyleKey implements [Keyer].
func (DefaultKeyer) StyleKey(preset, overrideHash string) string {
	return hashKey("style", preset, overrideHash)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
