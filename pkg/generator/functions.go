package generator

import (
	"strings"

	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/names"
)

// FunctionNamePlaceholder stands in for a helper function's own name inside
// the lines passed to [Pass.ProvideFunction]. It is delimited by ASCII group
// separators so it cannot clash with real source text.
const FunctionNamePlaceholder = "\x1dFUNCTION_NAME\x1d"

// FunctionDef is a helper function emitted once per pass.
type FunctionDef struct {
	Name       string `json:"name"`        // Logical name chosen by the binding
	ActualName string `json:"actual_name"` // Collision-free identifier used in the output
	Code       string `json:"code"`        // Full definition with the placeholder substituted
}

// FunctionRegistry collects helper functions during a pass.
//
// The first provider of a logical name wins. Later calls return the same
// actual name and their bodies are ignored, so rules can call
// [Pass.ProvideFunction] unconditionally every time they need the helper.
type FunctionRegistry struct {
	db    *names.DB
	defs  map[string]*FunctionDef
	order []string
}

// NewFunctionRegistry returns an empty registry that draws identifiers from db.
func NewFunctionRegistry(db *names.DB) *FunctionRegistry {
	return &FunctionRegistry{
		db:   db,
		defs: make(map[string]*FunctionDef),
	}
}

// Provide registers a helper under name and returns its actual identifier.
func (r *FunctionRegistry) Provide(name string, lines []string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "function name must not be empty")
	}
	if def, ok := r.defs[name]; ok {
		return def.ActualName, nil
	}
	actual := r.db.GetName(name, names.CategoryFunction)
	code := strings.ReplaceAll(strings.Join(lines, "\n"), FunctionNamePlaceholder, actual)
	r.defs[name] = &FunctionDef{Name: name, ActualName: actual, Code: code}
	r.order = append(r.order, name)
	return actual, nil
}

// Lookup returns the definition registered under a logical name.
func (r *FunctionRegistry) Lookup(name string) (FunctionDef, bool) {
	def, ok := r.defs[name]
	if !ok {
		return FunctionDef{}, false
	}
	return *def, true
}

// Definitions returns all helpers in the order they were first provided.
func (r *FunctionRegistry) Definitions() []FunctionDef {
	out := make([]FunctionDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.defs[name])
	}
	return out
}

// Len returns the number of registered helpers.
func (r *FunctionRegistry) Len() int { return len(r.order) }

// Reset forgets every helper. Names already handed out by the underlying
// database stay taken.
func (r *FunctionRegistry) Reset() {
	r.defs = make(map[string]*FunctionDef)
	r.order = nil
}
