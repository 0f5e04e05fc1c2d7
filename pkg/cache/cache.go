// Package cache stores generated artifacts keyed by their inputs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: shared cache backed by a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from the language, a hash of the canonical
// workspace document, and every option that changes the output:
//
//	k := cache.NewDefaultKeyer()
//	key := k.CodeKey("python", cache.Hash(doc), cache.CodeKeyOpts{StableNames: true})
//
// Backend failures are reported to the caller, which is expected to treat
// them as misses. A cache must never make generation fail.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Entries are content-addressed, so expiry only
// bounds disk and memory use.
const (
	TTLCode  = 7 * 24 * time.Hour
	TTLGraph = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is reported
	// as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for generation artifacts.
type Keyer interface {
	// CodeKey identifies generated source code.
	CodeKey(language, workspaceHash string, opts CodeKeyOpts) string

	// GraphKey identifies a rendered block graph.
	GraphKey(workspaceHash string, opts GraphKeyOpts) string
}

// CodeKeyOpts lists the generation options that affect generated code.
type CodeKeyOpts struct {
	StableNames   bool     `json:"stable_names,omitempty"`
	Indent        string   `json:"indent,omitempty"`
	ReservedWords []string `json:"reserved_words,omitempty"`
}

// GraphKeyOpts lists the rendering options that affect a graph artifact.
type GraphKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes every key component so keys have a fixed length.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CodeKey returns "code:<language>:<sha256>".
func (DefaultKeyer) CodeKey(language, workspaceHash string, opts CodeKeyOpts) string {
	return artifactKey("code:"+language, workspaceHash, opts)
}

// GraphKey returns "graph:<format>:<sha256>".
func (DefaultKeyer) GraphKey(workspaceHash string, opts GraphKeyOpts) string {
	return artifactKey("graph:"+opts.Format, workspaceHash, opts)
}
