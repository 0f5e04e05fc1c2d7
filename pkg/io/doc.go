// Package io provides JSON import and export for block workspaces.
//
// # JSON Format
//
// A workspace document lists its top-level blocks. Connected blocks are
// nested inside their parent, under an input or the "next" link:
//
//	{
//	  "blocks": [
//	    {
//	      "type": "text_print",
//	      "comment": "greet the user",
//	      "inputs": {
//	        "TEXT": {"block": {"type": "text", "output": true, "fields": {"TEXT": "hi"}}}
//	      },
//	      "next": {"type": "text_print", "disabled": true}
//	    }
//	  ]
//	}
//
// # Block Fields
//
// Required:
//   - type: Block type tag selecting the translation rule
//
// Optional:
//   - id: Unique identifier (generated if omitted)
//   - output: true for value blocks; must be explicit
//   - disabled: Disabled blocks generate no code
//   - comment: Free-text comment emitted above the generated code
//   - fields: String map of literal field values
//   - inputs: Map of input name to {"block": ...} for value inputs or
//     {"statement": ...} for statement inputs. An empty input is declared
//     with {"kind": "value"} or {"kind": "statement"}
//   - next: The following statement block
//
// Inputs are attached in the order they appear in the document, so an
// "if" block lists IF0, DO0, IF1, DO1 the way it was written. Export keeps
// the block's input order.
//
// # Import
//
// Use [ImportJSON] to read a workspace from a file path, or [ReadJSON] to
// read from any io.Reader. All failures carry the INVALID_WORKSPACE code
// from pkg/errors, except a missing file which is FILE_NOT_FOUND.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the canonical form of a workspace:
// explicit IDs, sorted inputs, indented. Re-importing the output yields a
// workspace that generates identical code.
package io
