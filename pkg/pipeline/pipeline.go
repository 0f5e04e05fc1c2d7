// Package pipeline provides the load → generate → render pipeline shared by
// the CLI and the HTTP server.
//
// Centralizing the stages here keeps caching, logging, and observability
// consistent across entry points.
//
// # Stages
//
//  1. Load: decode a workspace document into a block graph
//  2. Generate: run one generation pass for the selected language
//  3. Render: draw the block graph as DOT or SVG (optional)
//
// Each stage can be run independently or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	ws, err := pipeline.Load(ctx, "program.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, ws, pipeline.Options{Language: "python"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Code)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgen/pkg/cache"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/languages"
	"github.com/matzehuels/blockgen/pkg/names"
	"github.com/matzehuels/blockgen/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultLanguage is used when no language is requested.
	DefaultLanguage = "python"

	// DefaultGraphFormat is the default block graph output format.
	DefaultGraphFormat = nodelink.FormatSVG
)

// ValidGraphFormats is the set of supported graph output formats.
var ValidGraphFormats = map[string]bool{
	nodelink.FormatDOT: true,
	nodelink.FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Language      string   `json:"language"`
	Indent        string   `json:"indent,omitempty"` // Overrides the language's indent unit
	StableNames   bool     `json:"stable_names,omitempty"`
	ReservedWords []string `json:"reserved_words,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"` // Skip cache reads, still write

	// Render options
	Graph       bool   `json:"graph,omitempty"` // Execute also renders the block graph
	GraphFormat string `json:"graph_format,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// NameDB keeps identifiers stable across runs. Output then depends on
	// the database's history, so such runs bypass the cache.
	NameDB *names.DB `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Code is the generated program.
	Code string

	// Functions lists the helper definitions emitted by the pass.
	Functions []generator.FunctionDef

	// WorkspaceHash is the content hash of the canonical workspace document.
	WorkspaceHash string

	// Graph is the rendered block graph when Options.Graph is set.
	Graph []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount   int
	TopBlocks    int
	Functions    int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the code came from cache
	RenderHit   bool // Whether the graph came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateLanguage checks that a language is registered.
func ValidateLanguage(name string) error {
	if languages.Find(name) == nil {
		return errors.New(errors.ErrCodeInvalidLanguage,
			"unknown language %q (must be one of: %s)", name, strings.Join(languages.Names(), ", "))
	}
	return nil
}

// ValidateGraphFormat checks that a graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ValidateIndent checks that an indent override is whitespace only.
func ValidateIndent(indent string) error {
	if strings.Trim(indent, " \t") != "" {
		return errors.New(errors.ErrCodeInvalidInput, "indent must contain only spaces and tabs, got %q", indent)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if o.Graph {
		if err := o.ValidateForRender(); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the fields used by the generate stage.
func (o *Options) ValidateForGenerate() error {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if err := ValidateLanguage(o.Language); err != nil {
		return err
	}
	o.Language = languages.Find(o.Language).Name
	if err := ValidateIndent(o.Indent); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender validates and sets defaults for graph rendering.
func (o *Options) ValidateForRender() error {
	if o.GraphFormat == "" {
		o.GraphFormat = DefaultGraphFormat
	}
	o.setLoggerDefault()
	return ValidateGraphFormat(o.GraphFormat)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// CodeKeyOpts returns cache key options for code generation.
func (o *Options) CodeKeyOpts() cache.CodeKeyOpts {
	return cache.CodeKeyOpts{
		StableNames:   o.StableNames,
		Indent:        o.Indent,
		ReservedWords: o.ReservedWords,
	}
}

// GraphKeyOpts returns cache key options for graph rendering.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Format:   o.GraphFormat,
		Detailed: o.Detailed,
	}
}

// NewGenerator builds a generator for the validated options.
func (o *Options) NewGenerator() (*generator.Generator, error) {
	lang := languages.Find(o.Language)
	if lang == nil {
		return nil, ValidateLanguage(o.Language)
	}
	if o.Indent != "" {
		custom := *lang
		custom.Indent = o.Indent
		lang = &custom
	}

	genOpts := []generator.Option{generator.WithLogger(o.Logger)}
	switch {
	case o.NameDB != nil:
		genOpts = append(genOpts, generator.WithNameDB(o.NameDB))
	case o.StableNames:
		genOpts = append(genOpts, generator.WithStableNames())
	}

	g, err := generator.New(lang, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("build %s generator: %w", lang.Name, err)
	}
	if len(o.ReservedWords) > 0 {
		g.AddReservedWords(strings.Join(o.ReservedWords, ","))
	}
	return g, nil
}
