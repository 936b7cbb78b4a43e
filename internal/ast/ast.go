// Package ast defines the surface expression tree produced by the
// (external) parser and threaded through check, tag, and lift.
//
// Every node carries both a source Span (for diagnostics) and a Tag
// (for label generation). The Span is set once by the parser and never
// changes; the Tag is zero until the tagger pass assigns it. Carrying
// both fields on every node sidesteps needing two distinct annotated
// tree shapes (Span-only, then uint32-only) for what is otherwise the
// same walk.
package ast

import "github.com/snakelang/snakec/internal/token"

// Prim is the closed set of primitive operators.
type Prim int

const (
	Add1 Prim = iota
	Sub1
	Not
	Print
	IsBool
	IsNum
	IsFloat
	Sqrt
	Cos

	Add
	Sub
	Mul
	Div
	FloorDiv
	And
	Or
	Lt
	Gt
	Le
	Ge
	Eq
	Neq
)

var primNames = map[Prim]string{
	Add1: "add1", Sub1: "sub1", Not: "!", Print: "print",
	IsBool: "isbool", IsNum: "isnum", IsFloat: "isfloat",
	Sqrt: "sqrt", Cos: "cos",
	Add: "+", Sub: "-", Mul: "*", Div: "/", FloorDiv: "//",
	And: "&&", Or: "||", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	Eq: "==", Neq: "!=",
}

func (p Prim) String() string {
	if s, ok := primNames[p]; ok {
		return s
	}
	return "<unknown prim>"
}

var primByName map[string]Prim

func init() {
	primByName = make(map[string]Prim, len(primNames))
	for p, s := range primNames {
		primByName[s] = p
	}
}

// ParsePrim looks up a Prim by its surface operator/keyword spelling,
// for fixture decoding and anywhere else a prim needs to round-trip
// through text.
func ParsePrim(s string) (Prim, bool) {
	p, ok := primByName[s]
	return p, ok
}

// Arity reports how many operands the primitive takes.
func (p Prim) Arity() int {
	switch p {
	case Add1, Sub1, Not, Print, IsBool, IsNum, IsFloat, Sqrt, Cos:
		return 1
	default:
		return 2
	}
}

// Node is the base interface every AST node satisfies.
type Node interface {
	Span() token.Span
	GetTag() uint32
	Accept(v Visitor)
}

// Expr is a surface expression node.
type Expr interface {
	Node
	exprNode()
}

// Ann carries the two annotation fields common to every node: the
// parser-assigned source span and the tagger-assigned label suffix.
type Ann struct {
	Sp  token.Span
	Tag uint32
}

func (a Ann) Span() token.Span { return a.Sp }
func (a Ann) GetTag() uint32   { return a.Tag }

// Binding is a single name/value pair within a Let.
type Binding struct {
	Name  string
	Value Expr
}

// FunDecl is one function definition within a FunDefs group.
type FunDecl struct {
	Ann
	Name       string
	Parameters []string
	Body       Expr
}

func (d *FunDecl) Accept(v Visitor) { v.VisitFunDecl(d) }

type NumExpr struct {
	Ann
	Value int64
}

func (e *NumExpr) exprNode()      {}
func (e *NumExpr) Accept(v Visitor) { v.VisitNum(e) }

type BoolExpr struct {
	Ann
	Value bool
}

func (e *BoolExpr) exprNode()      {}
func (e *BoolExpr) Accept(v Visitor) { v.VisitBool(e) }

// FloatExpr stores the literal as a float64; the checker rejects values
// outside the single-precision range, and codegen's tagged encoding
// truncates it to single precision.
type FloatExpr struct {
	Ann
	Value float64
}

func (e *FloatExpr) exprNode()      {}
func (e *FloatExpr) Accept(v Visitor) { v.VisitFloat(e) }

// ApproxEqual implements the epsilon-tolerant equality used for
// deduplicating/comparing float literals (never hashed).
func (e *FloatExpr) ApproxEqual(other *FloatExpr) bool {
	d := e.Value - other.Value
	if d < 0 {
		d = -d
	}
	return d < float64(epsilon32)
}

const epsilon32 = 1.1920929e-07 // float32 machine epsilon

type VarExpr struct {
	Ann
	Name string
}

func (e *VarExpr) exprNode()      {}
func (e *VarExpr) Accept(v Visitor) { v.VisitVar(e) }

type PrimExpr struct {
	Ann
	Op   Prim
	Args []Expr
}

func (e *PrimExpr) exprNode()      {}
func (e *PrimExpr) Accept(v Visitor) { v.VisitPrim(e) }

type LetExpr struct {
	Ann
	Bindings []Binding
	Body     Expr
}

func (e *LetExpr) exprNode()      {}
func (e *LetExpr) Accept(v Visitor) { v.VisitLet(e) }

type IfExpr struct {
	Ann
	Cond Expr
	Then Expr
	Else Expr
}

func (e *IfExpr) exprNode()      {}
func (e *IfExpr) Accept(v Visitor) { v.VisitIf(e) }

type FunDefsExpr struct {
	Ann
	Decls []*FunDecl
	Body  Expr
}

func (e *FunDefsExpr) exprNode()      {}
func (e *FunDefsExpr) Accept(v Visitor) { v.VisitFunDefs(e) }

type CallExpr struct {
	Ann
	FunName string
	Args    []Expr
}

func (e *CallExpr) exprNode()      {}
func (e *CallExpr) Accept(v Visitor) { v.VisitCall(e) }

// InternalTailCallExpr is produced only by the lambda lifter: a jmp to
// a function still nested in an enclosing FunDefs.
type InternalTailCallExpr struct {
	Ann
	FunName string
	Args    []Expr
}

func (e *InternalTailCallExpr) exprNode()      {}
func (e *InternalTailCallExpr) Accept(v Visitor) { v.VisitInternalTailCall(e) }

// ExternalCallExpr is produced only by the lambda lifter: a call/ret
// to a top-level (lifted or original) function.
type ExternalCallExpr struct {
	Ann
	FunName string
	Args    []Expr
	IsTail  bool
}

func (e *ExternalCallExpr) exprNode()      {}
func (e *ExternalCallExpr) Accept(v Visitor) { v.VisitExternalCall(e) }
