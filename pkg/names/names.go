// Package names maps the names users give things in the editor to
// identifiers that are legal and collision-free in generated code.
//
// A [DB] is scoped by [Category] so that a variable and a procedure may both
// be called "count" in the editor, while still receiving distinct
// identifiers in the output. Reserved words of the target language are never
// handed out.
//
//	db := names.New("if", "else", "for")
//	db.GetName("for", names.CategoryVariable)   // "for2"
//	db.GetName("my var", names.CategoryVariable) // "my_var"
//	db.GetName("My Var", names.CategoryVariable) // "my_var" (case-insensitive)
package names

import (
	"fmt"
	"strings"
)

// Category namespaces the desired names looked up through a [DB].
type Category string

// Standard categories.
const (
	CategoryVariable  Category = "variable"
	CategoryProcedure Category = "procedure"
	// CategoryFunction is used for helper functions emitted by the generator
	// itself rather than defined by the user.
	CategoryFunction Category = "generated_function"
)

// DB hands out identifiers. The zero value is not usable; call [New].
// A DB is not safe for concurrent use.
type DB struct {
	reserved map[string]struct{}
	assigned map[string]string   // normalized (name, category) -> identifier
	used     map[string]struct{} // identifiers already handed out
	order    map[Category][]string
}

// New creates a database that never returns any of the reserved words.
func New(reserved ...string) *DB {
	db := &DB{reserved: make(map[string]struct{})}
	db.AddReserved(reserved...)
	db.Reset()
	return db
}

// AddReserved adds words that must never be returned as identifiers.
// Empty words are ignored; duplicates are harmless.
func (db *DB) AddReserved(words ...string) {
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			db.reserved[w] = struct{}{}
		}
	}
}

// IsReserved reports whether word is reserved.
func (db *DB) IsReserved(word string) bool {
	_, ok := db.reserved[word]
	return ok
}

// Reset forgets every assignment. Reserved words are kept.
func (db *DB) Reset() {
	db.assigned = make(map[string]string)
	db.used = make(map[string]struct{})
	db.order = make(map[Category][]string)
}

// ReleaseDistinct forgets identifiers handed out by GetDistinctName alone,
// such as loop counters. Identifiers assigned through GetName are kept, so a
// database reused across passes hands the same temporaries out again.
func (db *DB) ReleaseDistinct() {
	db.used = make(map[string]struct{}, len(db.assigned))
	for _, id := range db.assigned {
		db.used[id] = struct{}{}
	}
}

// GetName returns the identifier for name within category, assigning one on
// first use. Lookups are case-insensitive, so "Count" and "count" map to the
// same identifier.
func (db *DB) GetName(name string, category Category) string {
	key := strings.ToLower(name) + "\x00" + string(category)
	if id, ok := db.assigned[key]; ok {
		return id
	}
	id := db.GetDistinctName(name, category)
	db.assigned[key] = id
	db.order[category] = append(db.order[category], id)
	return id
}

// Assigned returns the identifiers handed out by GetName for category, in
// the order they were first requested.
func (db *DB) Assigned(category Category) []string {
	return append([]string(nil), db.order[category]...)
}

// GetDistinctName returns an identifier based on name that has never been
// returned before, in any category. Collisions get numeric suffixes
// starting at 2.
func (db *DB) GetDistinctName(name string, category Category) string {
	base := SafeName(name)
	id := base
	for i := 2; db.taken(id); i++ {
		id = fmt.Sprintf("%s%d", base, i)
	}
	db.used[id] = struct{}{}
	return id
}

func (db *DB) taken(id string) bool {
	if _, ok := db.used[id]; ok {
		return true
	}
	_, ok := db.reserved[id]
	return ok
}

// SafeName converts an arbitrary string into a legal identifier.
// Spaces and ASCII punctuation become underscores, non-ASCII bytes are
// escaped as _XX, a leading digit gets a "my_" prefix, and the empty string
// becomes "unnamed".
func SafeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		case c < 0x80:
			b.WriteByte('_')
		default:
			fmt.Fprintf(&b, "_%02X", c)
		}
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "my_" + out
	}
	return out
}

// Equals reports whether two editor names refer to the same thing.
func Equals(a, b string) bool {
	return strings.EqualFold(a, b)
}
