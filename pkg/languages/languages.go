// Package languages provides the complete list of target languages.
//
// The binding packages (python, javascript) import pkg/generator, so the
// generator cannot import them back. Consumers that need the full list
// import this package instead.
//
//	for _, lang := range languages.All {
//	    fmt.Println(lang.Name)
//	}
package languages

import (
	"strings"

	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/languages/javascript"
	"github.com/matzehuels/blockgen/pkg/languages/python"
)

// All is the canonical list of supported target languages.
var All = []*generator.Language{
	python.Language,
	javascript.Language,
}

// aliases maps short names to canonical language names.
var aliases = map[string]string{
	"py":   "python",
	"js":   "javascript",
	"node": "javascript",
}

// Find returns the language with the given name or alias, or nil if not
// found. Matching is case-insensitive.
func Find(name string) *generator.Language {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	for _, lang := range All {
		if lang.Name == name {
			return lang
		}
	}
	return nil
}

// Names returns the canonical names of all languages.
func Names() []string {
	out := make([]string, len(All))
	for i, lang := range All {
		out[i] = lang.Name
	}
	return out
}
