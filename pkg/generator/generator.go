package generator

import (
	"context"
	"io"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/names"
)

// Generator turns workspaces into source code for one [Language].
//
// A Generator runs one pass at a time; a second concurrent call to
// [Generator.WorkspaceToCode] fails with PASS_IN_PROGRESS. Distinct
// Generators share nothing and may run in parallel.
type Generator struct {
	lang     *Language
	rules    map[string]Rule
	reserved []string
	seen     map[string]bool
	db       *names.DB // non-nil when names persist across passes
	logger   *log.Logger
	running  atomic.Bool
}

// Option configures a [Generator].
type Option func(*Generator)

// WithNameDB reuses db for every pass so that identifiers stay stable
// between runs. Without it each pass starts from a fresh database.
// Temporaries from GetDistinctName are released at the start of each pass;
// only GetName assignments carry over.
func WithNameDB(db *names.DB) Option {
	return func(g *Generator) { g.db = db }
}

// WithStableNames is WithNameDB with a database owned by the generator.
func WithStableNames() Option {
	return func(g *Generator) { g.db = names.New() }
}

// WithLogger sets the logger for pass diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a generator for lang. The rule table is copied, so later
// changes to lang.Rules do not affect the generator; use
// [Generator.Register] instead.
func New(lang *Language, opts ...Option) (*Generator, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		lang:   lang,
		rules:  maps.Clone(lang.Rules),
		seen:   make(map[string]bool),
		logger: log.New(io.Discard),
	}
	if g.rules == nil {
		g.rules = make(map[string]Rule)
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, w := range lang.ReservedWords {
		g.addReserved(w)
	}
	return g, nil
}

// Language returns the generator's binding.
func (g *Generator) Language() *Language { return g.lang }

// Register adds or replaces the rule for a block type on this generator only.
func (g *Generator) Register(typ string, rule Rule) error {
	if err := errors.ValidateBlockType(typ); err != nil {
		return err
	}
	if rule == nil {
		return errors.New(errors.ErrCodeInvalidLanguage, "nil rule for block type %q", typ)
	}
	g.rules[typ] = rule
	return nil
}

// AddReservedWords adds a comma-separated list of words that generated
// identifiers must avoid. The set only grows.
func (g *Generator) AddReservedWords(words string) {
	for _, w := range strings.Split(words, ",") {
		g.addReserved(strings.TrimSpace(w))
	}
}

// ReservedWords returns the reserved words in the order they were added.
func (g *Generator) ReservedWords() []string {
	return append([]string(nil), g.reserved...)
}

func (g *Generator) addReserved(w string) {
	if w == "" || g.seen[w] {
		return
	}
	g.seen[w] = true
	g.reserved = append(g.reserved, w)
	if g.db != nil {
		g.db.AddReserved(w)
	}
}

// Output is the result of a generation pass.
type Output struct {
	Code      string        `json:"code"`                // Normalized program text
	Functions []FunctionDef `json:"functions,omitempty"` // Helper functions emitted by the pass
	TopBlocks int           `json:"top_blocks"`          // Number of top-level blocks visited
}

// WorkspaceToCode generates the program for every top-level block in ws.
func (g *Generator) WorkspaceToCode(ctx context.Context, ws *block.Workspace) (string, error) {
	out, err := g.Generate(ctx, ws)
	if err != nil {
		return "", err
	}
	return out.Code, nil
}

// Generate is WorkspaceToCode with pass details. A nil workspace generates
// an empty program.
func (g *Generator) Generate(ctx context.Context, ws *block.Workspace) (*Output, error) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodePassInProgress,
			"%s generator is already running a pass", g.lang.Name)
	}
	defer g.running.Store(false)

	p := newPass(g, g.passNames())
	if g.lang.Init != nil {
		if err := g.lang.Init(p); err != nil {
			return nil, err
		}
	}

	var tops []*block.Block
	if ws != nil {
		tops = ws.TopBlocks()
	}
	parts := make([]string, 0, len(tops))
	for _, b := range tops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := p.BlockToCode(b)
		if err != nil {
			g.logger.Debug("generation failed", "language", g.lang.Name, "block", b.ID, "type", b.Type, "error", err)
			return nil, err
		}
		line := res.String()
		if line == "" {
			continue
		}
		if b.HasOutput() && g.lang.ScrubNakedValue != nil {
			line = g.lang.ScrubNakedValue(line)
		}
		parts = append(parts, line)
	}

	code := strings.Join(parts, "\n")
	if g.lang.Finish != nil {
		code = g.lang.Finish(p, code)
	} else {
		code = DefaultFinish(p, code)
	}
	code = normalize(code)

	g.logger.Debug("generated", "language", g.lang.Name, "top_blocks", len(tops),
		"functions", p.functions.Len(), "bytes", len(code))
	return &Output{
		Code:      code,
		Functions: p.functions.Definitions(),
		TopBlocks: len(tops),
	}, nil
}

func (g *Generator) passNames() *names.DB {
	if g.db != nil {
		g.db.ReleaseDistinct()
		return g.db
	}
	return names.New(g.reserved...)
}
