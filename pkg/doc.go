// Package pkg provides the core libraries for Blockgen, a code generator for
// visual block programs.
//
// # Overview
//
// A block editor exports a workspace as JSON: top-level stacks of statement
// blocks, with value blocks plugged into their inputs. Blockgen turns such a
// workspace into Python or JavaScript source. The pkg directory is organized
// into these areas:
//
//  1. [block] - The block graph: blocks, inputs, next links, workspaces
//  2. [io] - JSON import and export of workspace documents
//  3. [generator] - The language-independent generator and function registry
//  4. [languages] - Target language bindings (Python, JavaScript)
//  5. [names] - Reserved words and collision-free identifier allocation
//  6. [pipeline] - Orchestration (load → generate → render) with caching
//  7. [render] - Block graph diagrams
//
// Supporting packages: [cache] (file, Redis and MongoDB backends), [config]
// (TOML, .env and environment layering), [server] (HTTP API), [errors]
// (error codes), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
// The typical data flow through Blockgen:
//
//	Workspace JSON
//	      ↓
//	 [io] package (decode and validate the block graph)
//	      ↓
//	 [generator] package + a [languages] binding (one generation pass)
//	      ↓
//	 Source code, plus an optional [render] diagram
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/blockgen/pkg/generator"
//	    "github.com/matzehuels/blockgen/pkg/io"
//	    "github.com/matzehuels/blockgen/pkg/languages/python"
//	)
//
//	ws, _ := io.ImportJSON("program.json")
//	gen, _ := generator.New(python.Language)
//	code, _ := gen.WorkspaceToCode(ctx, ws)
//
// Most callers use [pipeline.Runner] instead, which adds caching and
// observability.
//
// [block]: github.com/matzehuels/blockgen/pkg/block
// [io]: github.com/matzehuels/blockgen/pkg/io
// [generator]: github.com/matzehuels/blockgen/pkg/generator
// [languages]: github.com/matzehuels/blockgen/pkg/languages
// [names]: github.com/matzehuels/blockgen/pkg/names
// [pipeline]: github.com/matzehuels/blockgen/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/blockgen/pkg/pipeline#Runner
// [render]: github.com/matzehuels/blockgen/pkg/render
// [cache]: github.com/matzehuels/blockgen/pkg/cache
// [config]: github.com/matzehuels/blockgen/pkg/config
// [server]: github.com/matzehuels/blockgen/pkg/server
// [errors]: github.com/matzehuels/blockgen/pkg/errors
// [observability]: github.com/matzehuels/blockgen/pkg/observability
// [buildinfo]: github.com/matzehuels/blockgen/pkg/buildinfo
package pkg
