// Package mip holds the model-assembly context for mixed-integer linear
// programs: variables, linear expressions, named constraints, and an
// objective. It is a pure container (solving happens behind the
// ports.MIPSolver boundary), so generator phases can pass one *Model
// through and return it complete, with no ambient global state.
package mip

import (
	"fmt"
	"math"
)

type Sense int

const (
	Minimize Sense = iota
	Maximize
)

type VarType int

const (
	ContinuousVariable VarType = iota
	BinaryVariable
)

// Variable is a column of the model. Variables are bound to the model that
// created them; Index is the position used by solution value slices.
type Variable struct {
	name  string
	typ   VarType
	lb    float64
	ub    float64
	index int
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Type() VarType { return v.typ }

func (v *Variable) Index() int { return v.index }

// Bounds returns the lower and upper bound. Binary variables are [0, 1].
func (v *Variable) Bounds() (float64, float64) { return v.lb, v.ub }

// Relation is the comparison operator of a constraint row.
type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// Constraint is one named row: Expr Rel RHS. The identifier is required;
// infeasibility diagnostics are reported per constraint name.
type Constraint struct {
	Name string
	Expr *Expr
	Rel  Relation
	RHS  float64
}

// Activity evaluates the constraint's left-hand side at the given values.
func (c *Constraint) Activity(values []float64) float64 {
	return c.Expr.Value(values)
}

// Satisfied reports whether the constraint holds at the given values within
// tolerance eps.
func (c *Constraint) Satisfied(values []float64, eps float64) bool {
	act := c.Activity(values)
	switch c.Rel {
	case LessEq:
		return act <= c.RHS+eps
	case GreaterEq:
		return act >= c.RHS-eps
	default:
		return math.Abs(act-c.RHS) <= eps
	}
}

type Model struct {
	name  string
	sense Sense
	vars  []*Variable
	cons  []*Constraint
	obj   *Expr
}

func NewModel(name string, sense Sense) *Model {
	return &Model{name: name, sense: sense, obj: NewExpr()}
}

func (m *Model) Name() string { return m.name }
func (m *Model) Sense() Sense { return m.sense }

// AddContinuous adds a continuous variable with the given bounds.
func (m *Model) AddContinuous(name string, lb, ub float64) *Variable {
	return m.addVariable(name, ContinuousVariable, lb, ub)
}

// AddBinary adds a {0,1} variable.
func (m *Model) AddBinary(name string) *Variable {
	return m.addVariable(name, BinaryVariable, 0, 1)
}

func (m *Model) addVariable(name string, typ VarType, lb, ub float64) *Variable {
	if name == "" {
		name = fmt.Sprintf("V%d", len(m.vars))
	}
	v := &Variable{name: name, typ: typ, lb: lb, ub: ub, index: len(m.vars)}
	m.vars = append(m.vars, v)
	return v
}

// AddConstraint appends a named row. Empty or trivial rows are programming
// errors and panic rather than producing a silently wrong model.
func (m *Model) AddConstraint(name string, expr *Expr, rel Relation, rhs float64) *Constraint {
	if name == "" {
		panic("mip: constraint requires an identifier")
	}
	if expr == nil || expr.Len() == 0 {
		panic("mip: constraint " + name + " has an empty expression")
	}
	c := &Constraint{Name: name, Expr: expr, Rel: rel, RHS: rhs}
	m.cons = append(m.cons, c)
	return c
}

// SetObjective replaces the objective expression.
func (m *Model) SetObjective(e *Expr) { m.obj = e }

func (m *Model) Objective() *Expr { return m.obj }

func (m *Model) Variables() []*Variable { return m.vars }

func (m *Model) Constraints() []*Constraint { return m.cons }

func (m *Model) VariableCount() int { return len(m.vars) }

func (m *Model) ConstraintCount() int { return len(m.cons) }
