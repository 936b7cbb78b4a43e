// Package seqir defines the ANF (A-Normal Form) intermediate
// representation produced by the sequentializer: every operator,
// call, and if-condition operates only on immediates.
package seqir

import "github.com/snakelang/snakec/internal/ast"

// Imm is an immediate value: a literal or a variable reference.
type Imm interface {
	immNode()
}

type NumImm struct{ Value int64 }
type BoolImm struct{ Value bool }
type VarImm struct{ Name string }
type FloatImm struct{ Value float64 }

func (NumImm) immNode()   {}
func (BoolImm) immNode()  {}
func (VarImm) immNode()   {}
func (FloatImm) immNode() {}

// SeqExpr is the restricted ANF expression form.
type SeqExpr interface {
	seqNode()
	GetTag() uint32
}

// SeqFunDecl is a function declaration whose body has been lowered to ANF.
type SeqFunDecl struct {
	Name       string
	Parameters []string
	Body       SeqExpr
	Tag        uint32
}

type ImmSeqExpr struct {
	Value Imm
	Tag   uint32
}

func (e *ImmSeqExpr) seqNode()        {}
func (e *ImmSeqExpr) GetTag() uint32 { return e.Tag }

type PrimSeqExpr struct {
	Op   ast.Prim
	Args []Imm
	Tag  uint32
}

func (e *PrimSeqExpr) seqNode()        {}
func (e *PrimSeqExpr) GetTag() uint32 { return e.Tag }

type LetSeqExpr struct {
	Var      string
	BoundExp SeqExpr
	Body     SeqExpr
	Tag      uint32
}

func (e *LetSeqExpr) seqNode()        {}
func (e *LetSeqExpr) GetTag() uint32 { return e.Tag }

type IfSeqExpr struct {
	Cond Imm
	Then SeqExpr
	Else SeqExpr
	Tag  uint32
}

func (e *IfSeqExpr) seqNode()        {}
func (e *IfSeqExpr) GetTag() uint32 { return e.Tag }

type FunDefsSeqExpr struct {
	Decls []*SeqFunDecl
	Body  SeqExpr
	Tag   uint32
}

func (e *FunDefsSeqExpr) seqNode()        {}
func (e *FunDefsSeqExpr) GetTag() uint32 { return e.Tag }

type InternalTailCallSeqExpr struct {
	FunName string
	Args    []Imm
	Tag     uint32
}

func (e *InternalTailCallSeqExpr) seqNode()        {}
func (e *InternalTailCallSeqExpr) GetTag() uint32 { return e.Tag }

type ExternalCallSeqExpr struct {
	FunName string
	Args    []Imm
	IsTail  bool
	Tag     uint32
}

func (e *ExternalCallSeqExpr) seqNode()        {}
func (e *ExternalCallSeqExpr) GetTag() uint32 { return e.Tag }
