package block

import "github.com/google/uuid"

// Workspace owns the blocks of one editor canvas.
//
// Blocks are kept in the order they were added so that [Workspace.TopBlocks]
// is reproducible for identical input. A Workspace is not safe for
// concurrent use; the host must not mutate it while a generation pass reads it.
type Workspace struct {
	blocks []*Block
	byID   map[string]*Block
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{byID: make(map[string]*Block)}
}

// Add registers blocks with the workspace in order. Blocks without an ID
// are assigned a random one. Connected (non top-level) blocks may be added
// too; they are simply not reported by TopBlocks.
func (w *Workspace) Add(blocks ...*Block) error {
	for _, b := range blocks {
		if b == nil {
			return ErrNilBlock
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if existing, ok := w.byID[b.ID]; ok {
			if existing == b {
				continue
			}
			return ErrDuplicateBlockID
		}
		w.byID[b.ID] = b
		w.blocks = append(w.blocks, b)
	}
	return nil
}

// Block returns the block with the given ID.
func (w *Workspace) Block(id string) (*Block, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// Blocks returns all registered blocks in insertion order.
func (w *Workspace) Blocks() []*Block { return w.blocks }

// Len returns the number of registered blocks.
func (w *Workspace) Len() int { return len(w.blocks) }

// TopBlocks returns the registered blocks that have no parent connection,
// in the order they were added.
func (w *Workspace) TopBlocks() []*Block {
	var out []*Block
	for _, b := range w.blocks {
		if b.parent == nil {
			out = append(out, b)
		}
	}
	return out
}

// Count returns the number of blocks reachable from the top-level blocks,
// including blocks that were connected but never registered.
func (w *Workspace) Count() int {
	n := 0
	for _, b := range w.TopBlocks() {
		n += len(b.Descendants())
	}
	return n
}
