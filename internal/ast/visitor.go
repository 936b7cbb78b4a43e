package ast

// Visitor dispatches over every surface expression variant. Passes
// that only care about a handful of node kinds typically embed
// BaseVisitor and override the methods they need.
type Visitor interface {
	VisitNum(e *NumExpr)
	VisitBool(e *BoolExpr)
	VisitFloat(e *FloatExpr)
	VisitVar(e *VarExpr)
	VisitPrim(e *PrimExpr)
	VisitLet(e *LetExpr)
	VisitIf(e *IfExpr)
	VisitFunDefs(e *FunDefsExpr)
	VisitCall(e *CallExpr)
	VisitInternalTailCall(e *InternalTailCallExpr)
	VisitExternalCall(e *ExternalCallExpr)
	VisitFunDecl(d *FunDecl)
}

// BaseVisitor provides no-op implementations of every Visitor method.
type BaseVisitor struct{}

func (BaseVisitor) VisitNum(*NumExpr)                             {}
func (BaseVisitor) VisitBool(*BoolExpr)                            {}
func (BaseVisitor) VisitFloat(*FloatExpr)                          {}
func (BaseVisitor) VisitVar(*VarExpr)                              {}
func (BaseVisitor) VisitPrim(*PrimExpr)                            {}
func (BaseVisitor) VisitLet(*LetExpr)                              {}
func (BaseVisitor) VisitIf(*IfExpr)                                {}
func (BaseVisitor) VisitFunDefs(*FunDefsExpr)                      {}
func (BaseVisitor) VisitCall(*CallExpr)                            {}
func (BaseVisitor) VisitInternalTailCall(*InternalTailCallExpr)    {}
func (BaseVisitor) VisitExternalCall(*ExternalCallExpr)            {}
func (BaseVisitor) VisitFunDecl(*FunDecl)                          {}
