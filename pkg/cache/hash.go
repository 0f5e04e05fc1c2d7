package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
)

// Hash returns the hex SHA-256 digest of a canonical workspace document.
// Two documents that describe the same blocks hash equally, which is what
// lets a cached artifact outlive formatting changes to its source file.
func Hash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// artifactKey returns "<kind>:<digest>", where the digest covers the
// workspace hash and the JSON form of the options that shape the artifact.
func artifactKey(kind, workspaceHash string, opts any) string {
	h := sha256.New()
	io.WriteString(h, workspaceHash)
	h.Write([]byte{0})
	// Key option structs hold only strings, bools and string slices.
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
