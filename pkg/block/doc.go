// Package block models the block graph a visual editor hands to the code
// generator.
//
// # Overview
//
// A [Block] has a type tag, named literal fields, named value and statement
// inputs, and an optional next link to the following statement. Value blocks
// (those with an output connection) plug into value inputs; statement blocks
// chain through next links and nest inside statement inputs.
//
// A [Workspace] holds the blocks of one canvas and reports the unconnected
// ones through [Workspace.TopBlocks], in the order they were added.
//
// # Building Graphs
//
//	ws := block.NewWorkspace()
//	print := block.New("text_print")
//	msg := block.NewValue("text").WithField("TEXT", "hello")
//	_ = print.SetValue("TEXT", msg)
//	_ = ws.Add(print)
//
// # Preconditions
//
// The graph must be acyclic along next links and statement chains. The
// editor guarantees this structurally; this package does not check it.
package block
