package generator

// Order is an operator precedence level. Lower values bind tighter.
//
// Each language binding defines its own table between [OrderAtomic] and
// [OrderNone]; the generator only compares levels numerically.
type Order int

const (
	// OrderAtomic marks code that never needs parentheses: literals,
	// identifiers, calls.
	OrderAtomic Order = 0

	// OrderNone marks code with no meaningful precedence. As a maxOrder it
	// means "any expression is fine here" (function arguments, conditions).
	OrderNone Order = 99
)

// Valid reports whether o lies within [OrderAtomic, OrderNone].
func (o Order) Valid() bool {
	return o >= OrderAtomic && o <= OrderNone
}

// sentinel reports whether o is one of the two levels that never force
// parentheses.
func (o Order) sentinel() bool {
	return o == OrderAtomic || o == OrderNone
}

// needsParens reports whether code of precedence inner must be wrapped when
// used where maxOrder is the weakest acceptable binding.
//
// Equal levels are never wrapped. This assumes operators sharing a level
// compose left to right, which does not hold for right-associative operators
// such as exponentiation; bindings that care must pick distinct levels.
func needsParens(inner, maxOrder Order) bool {
	if inner == maxOrder || inner.sentinel() || maxOrder.sentinel() {
		return false
	}
	return inner > maxOrder
}
