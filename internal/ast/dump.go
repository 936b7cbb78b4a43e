package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders an expression tree to a compact s-expression form,
// primarily for golden-fixture diffs and debug logging.
func Dump(e Expr) string {
	d := &dumper{}
	e.Accept(d)
	return d.out.String()
}

type dumper struct {
	out strings.Builder
}

func (d *dumper) VisitNum(e *NumExpr) { d.out.WriteString(strconv.FormatInt(e.Value, 10)) }
func (d *dumper) VisitBool(e *BoolExpr) {
	if e.Value {
		d.out.WriteString("true")
	} else {
		d.out.WriteString("false")
	}
}
func (d *dumper) VisitFloat(e *FloatExpr) { fmt.Fprintf(&d.out, "%g", e.Value) }
func (d *dumper) VisitVar(e *VarExpr)     { d.out.WriteString(e.Name) }

func (d *dumper) VisitPrim(e *PrimExpr) {
	fmt.Fprintf(&d.out, "(%s", e.Op)
	for _, a := range e.Args {
		d.out.WriteByte(' ')
		a.Accept(d)
	}
	d.out.WriteByte(')')
}

func (d *dumper) VisitLet(e *LetExpr) {
	d.out.WriteString("(let (")
	for i, b := range e.Bindings {
		if i > 0 {
			d.out.WriteByte(' ')
		}
		fmt.Fprintf(&d.out, "(%s ", b.Name)
		b.Value.Accept(d)
		d.out.WriteByte(')')
	}
	d.out.WriteString(") ")
	e.Body.Accept(d)
	d.out.WriteByte(')')
}

func (d *dumper) VisitIf(e *IfExpr) {
	d.out.WriteString("(if ")
	e.Cond.Accept(d)
	d.out.WriteByte(' ')
	e.Then.Accept(d)
	d.out.WriteByte(' ')
	e.Else.Accept(d)
	d.out.WriteByte(')')
}

func (d *dumper) VisitFunDefs(e *FunDefsExpr) {
	d.out.WriteString("(fundefs (")
	for i, decl := range e.Decls {
		if i > 0 {
			d.out.WriteByte(' ')
		}
		decl.Accept(d)
	}
	d.out.WriteString(") ")
	e.Body.Accept(d)
	d.out.WriteByte(')')
}

func (d *dumper) VisitCall(e *CallExpr) {
	fmt.Fprintf(&d.out, "(call %s", e.FunName)
	for _, a := range e.Args {
		d.out.WriteByte(' ')
		a.Accept(d)
	}
	d.out.WriteByte(')')
}

func (d *dumper) VisitInternalTailCall(e *InternalTailCallExpr) {
	fmt.Fprintf(&d.out, "(itailcall %s", e.FunName)
	for _, a := range e.Args {
		d.out.WriteByte(' ')
		a.Accept(d)
	}
	d.out.WriteByte(')')
}

func (d *dumper) VisitExternalCall(e *ExternalCallExpr) {
	fmt.Fprintf(&d.out, "(excall %s tail=%v", e.FunName, e.IsTail)
	for _, a := range e.Args {
		d.out.WriteByte(' ')
		a.Accept(d)
	}
	d.out.WriteByte(')')
}

func (d *dumper) VisitFunDecl(decl *FunDecl) {
	fmt.Fprintf(&d.out, "(fun %s (%s) ", decl.Name, strings.Join(decl.Parameters, " "))
	decl.Body.Accept(d)
	d.out.WriteByte(')')
}
