package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a raw HTTP response body.
	HTTPKey(namespace, key string) string
	// GraphKey is the key of a built dependency description.
	GraphKey(source, pkg string, opts GraphKeyOpts) string
	// ArtifactKey is the key of a rendered output for a description hash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the request fields that change a built description.
type GraphKeyOpts struct {
	Version      string `json:"version,omitempty"`
	Filter       string `json:"filter,omitempty"`
	SkipOptional bool   `json:"skip_optional,omitempty"`
	Location     string `json:"location,omitempty"` // lockfile path or URL, or registry API root
}

// ArtifactKeyOpts are the fields that change a rendered output.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) GraphKey(source, pkg string, opts GraphKeyOpts) string {
	return digestKey("graph", source, pkg, opts)
}

func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", graphHash, opts)
}

// keySchema is bumped when a cached value's JSON shape changes, so entries
// written by older builds are never decoded.
const keySchema = "v1"

// digestKey returns kind:schema:sha256(json(parts)).
func digestKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts) // strings and flat option structs only
	return kind + ":" + keySchema + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. It names rendered artifacts and
// file cache entries.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
