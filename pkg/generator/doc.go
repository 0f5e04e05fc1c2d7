// Package generator turns a workspace of visual blocks into program text.
//
// # Overview
//
// A [Generator] is bound to one target [Language]. The language supplies a
// [Rule] per block type; the generator walks the block graph, calls the
// rules, and assembles the results:
//
//	gen, err := generator.New(python.Language)
//	code, err := gen.WorkspaceToCode(ctx, ws)
//
// # Rules and Results
//
// Statement blocks return a [Statement]. Value blocks return an [Expr]
// carrying the precedence [Order] of their outermost operator, which
// [Pass.ValueToCode] uses to add exactly the parentheses the surrounding
// context needs:
//
//	func arithmetic(p *generator.Pass, b *block.Block) (generator.Result, error) {
//	    a, err := p.ValueToCode(b, "A", orderAdditive)
//	    if err != nil {
//	        return nil, err
//	    }
//	    c, err := p.ValueToCode(b, "B", orderAdditive)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return generator.Expr{Code: a + " + " + c, Order: orderAdditive}, nil
//	}
//
// # Per-pass state
//
// Everything a pass accumulates (helper functions, top-of-file definitions,
// identifier assignments) lives on the [Pass] handed to each rule. Helper
// functions are registered with [Pass.ProvideFunction] using
// [FunctionNamePlaceholder] wherever the body refers to its own name.
//
// # Errors
//
// Binding mistakes abort the pass with a coded error from pkg/errors:
// UNSUPPORTED_BLOCK_TYPE, INVALID_PRECEDENCE_ORDER, MALFORMED_VALUE_RESULT,
// MALFORMED_STATEMENT_RESULT or MALFORMED_RESULT.
package generator
