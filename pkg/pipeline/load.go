package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/cache"
	pkgio "github.com/matzehuels/blockgen/pkg/io"
	"github.com/matzehuels/blockgen/pkg/observability"
)

// Load decodes the workspace document at path.
func Load(ctx context.Context, path string) (*block.Workspace, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, path)
	ws, err := pkgio.ImportJSON(path)
	observability.Pipeline().OnLoadComplete(ctx, path, blockCount(ws), time.Since(start), err)
	return ws, err
}

// LoadReader decodes a workspace document from r. The source names the
// document in observability events.
func LoadReader(ctx context.Context, source string, r io.Reader) (*block.Workspace, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)
	ws, err := pkgio.ReadJSON(r)
	observability.Pipeline().OnLoadComplete(ctx, source, blockCount(ws), time.Since(start), err)
	return ws, err
}

// WorkspaceHash returns the content hash of the canonical form of ws.
// Documents that differ only in formatting or key order hash the same.
func WorkspaceHash(ws *block.Workspace) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(ws, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

func blockCount(ws *block.Workspace) int {
	if ws == nil {
		return 0
	}
	return ws.Count()
}
