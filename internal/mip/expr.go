package mip

// Term is one coefficient/variable product inside a linear expression.
type Term struct {
	Coef float64
	Var  *Variable
}

// Expr is a linear expression over model variables. Terms keep their
// insertion order so that assembled models are byte-for-byte reproducible;
// repeated variables are allowed and aggregated by consumers.
type Expr struct {
	terms []Term
}

func NewExpr() *Expr { return &Expr{} }

// Add appends coef·v to the expression and returns the expression for
// chaining. Zero coefficients are dropped.
func (e *Expr) Add(coef float64, v *Variable) *Expr {
	if coef == 0 {
		return e
	}
	e.terms = append(e.terms, Term{Coef: coef, Var: v})
	return e
}

// Terms returns the expression's terms in insertion order. The slice is
// shared; callers must not mutate it.
func (e *Expr) Terms() []Term { return e.terms }

// Len returns the number of terms.
func (e *Expr) Len() int { return len(e.terms) }

// Value evaluates the expression against per-variable values indexed by
// Variable.Index.
func (e *Expr) Value(values []float64) float64 {
	total := 0.0
	for _, t := range e.terms {
		total += t.Coef * values[t.Var.Index()]
	}
	return total
}

// Aggregated returns parallel variable/coefficient slices with duplicate
// variables summed, preserving first-appearance order. This is the shape
// solver backends consume.
func (e *Expr) Aggregated() ([]*Variable, []float64) {
	idx := make(map[*Variable]int, len(e.terms))
	vars := make([]*Variable, 0, len(e.terms))
	coefs := make([]float64, 0, len(e.terms))
	for _, t := range e.terms {
		if i, ok := idx[t.Var]; ok {
			coefs[i] += t.Coef
			continue
		}
		idx[t.Var] = len(vars)
		vars = append(vars, t.Var)
		coefs = append(coefs, t.Coef)
	}
	return vars, coefs
}
