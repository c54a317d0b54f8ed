package ir

// AtomicExpr is an expression small enough to appear inside a type,
// such as the identifier naming a nominal tag
type AtomicExpr interface {
	Positioner

	// CanonicalSyntax should return equal strings for equal AtomicExpr
	CanonicalSyntax() string
}

var _ AtomicExpr = (*Var)(nil)

type Var struct {
	Name string
	Range
}

func (e *Var) CanonicalSyntax() string { return e.Name }
func (e *Var) String() string          { return e.Name }
