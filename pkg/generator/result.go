package generator

// Result is what a translation [Rule] returns: a [Statement] for statement
// blocks or an [Expr] for value blocks.
type Result interface {
	// String returns the generated code, dropping any precedence.
	String() string
	isResult()
}

// Statement is code for a statement block. It is either empty or ends with
// a newline.
type Statement string

// String returns the code.
func (s Statement) String() string { return string(s) }
func (Statement) isResult()        {}

// Expr is code for a value block together with the precedence of its
// outermost operator.
type Expr struct {
	Code  string
	Order Order
}

// String returns the code.
func (e Expr) String() string { return e.Code }
func (Expr) isResult()        {}
