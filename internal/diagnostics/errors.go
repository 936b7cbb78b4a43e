// Package diagnostics defines the compile-time error taxonomy
// (one struct per error kind, in the style of typesystem.SymbolNotFoundError)
// plus the InternalError used to report violated compiler invariants.
package diagnostics

import (
	"fmt"

	"github.com/snakelang/snakec/internal/token"
)

// CompileError is satisfied by every diagnostic the checker can produce.
type CompileError interface {
	error
	Location() token.Span
}

type UnboundVariable struct {
	Name     string
	Location_ token.Span
}

func (e *UnboundVariable) Error() string {
	return fmt.Sprintf("unbound variable %s", e.Name)
}
func (e *UnboundVariable) Location() token.Span { return e.Location_ }

func NewUnboundVariable(name string, loc token.Span) *UnboundVariable {
	return &UnboundVariable{Name: name, Location_: loc}
}

type UndefinedFunction struct {
	Name      string
	Location_ token.Span
}

func (e *UndefinedFunction) Error() string {
	return fmt.Sprintf("undefined function %s", e.Name)
}
func (e *UndefinedFunction) Location() token.Span { return e.Location_ }

func NewUndefinedFunction(name string, loc token.Span) *UndefinedFunction {
	return &UndefinedFunction{Name: name, Location_: loc}
}

type DuplicateBinding struct {
	Name      string
	Location_ token.Span
}

func (e *DuplicateBinding) Error() string {
	return fmt.Sprintf("%s defined twice in the same let", e.Name)
}
func (e *DuplicateBinding) Location() token.Span { return e.Location_ }

func NewDuplicateBinding(name string, loc token.Span) *DuplicateBinding {
	return &DuplicateBinding{Name: name, Location_: loc}
}

type DuplicateFunName struct {
	Name      string
	Location_ token.Span
}

func (e *DuplicateFunName) Error() string {
	return fmt.Sprintf("function %s defined twice in the same group", e.Name)
}
func (e *DuplicateFunName) Location() token.Span { return e.Location_ }

func NewDuplicateFunName(name string, loc token.Span) *DuplicateFunName {
	return &DuplicateFunName{Name: name, Location_: loc}
}

type DuplicateArgName struct {
	Name      string
	Location_ token.Span
}

func (e *DuplicateArgName) Error() string {
	return fmt.Sprintf("parameter %s defined twice", e.Name)
}
func (e *DuplicateArgName) Location() token.Span { return e.Location_ }

func NewDuplicateArgName(name string, loc token.Span) *DuplicateArgName {
	return &DuplicateArgName{Name: name, Location_: loc}
}

type NumOverflow struct {
	Num       int64
	Location_ token.Span
}

func (e *NumOverflow) Error() string {
	return fmt.Sprintf("integer literal %d out of representable range", e.Num)
}
func (e *NumOverflow) Location() token.Span { return e.Location_ }

func NewNumOverflow(n int64, loc token.Span) *NumOverflow {
	return &NumOverflow{Num: n, Location_: loc}
}

type FloatOverflow struct {
	Num       float64
	Location_ token.Span
}

func (e *FloatOverflow) Error() string {
	return fmt.Sprintf("float literal %g out of single-precision range", e.Num)
}
func (e *FloatOverflow) Location() token.Span { return e.Location_ }

func NewFloatOverflow(f float64, loc token.Span) *FloatOverflow {
	return &FloatOverflow{Num: f, Location_: loc}
}

type FunctionUsedAsValue struct {
	Name      string
	Location_ token.Span
}

func (e *FunctionUsedAsValue) Error() string {
	return fmt.Sprintf("%s is a function and cannot be used as a value", e.Name)
}
func (e *FunctionUsedAsValue) Location() token.Span { return e.Location_ }

func NewFunctionUsedAsValue(name string, loc token.Span) *FunctionUsedAsValue {
	return &FunctionUsedAsValue{Name: name, Location_: loc}
}

type ValueUsedAsFunction struct {
	Name      string
	Location_ token.Span
}

func (e *ValueUsedAsFunction) Error() string {
	return fmt.Sprintf("%s is a value and cannot be called as a function", e.Name)
}
func (e *ValueUsedAsFunction) Location() token.Span { return e.Location_ }

func NewValueUsedAsFunction(name string, loc token.Span) *ValueUsedAsFunction {
	return &ValueUsedAsFunction{Name: name, Location_: loc}
}

type FunctionCalledWrongArity struct {
	Name      string
	Expected  int
	Got       int
	Location_ token.Span
}

func (e *FunctionCalledWrongArity) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, e.Expected, e.Got)
}
func (e *FunctionCalledWrongArity) Location() token.Span { return e.Location_ }

func NewFunctionCalledWrongArity(name string, expected, got int, loc token.Span) *FunctionCalledWrongArity {
	return &FunctionCalledWrongArity{Name: name, Expected: expected, Got: got, Location_: loc}
}

// InternalError wraps a violated compiler invariant (a bug, not a
// user-facing diagnostic). It is the only error kind the pipeline's
// panic recovery boundary is allowed to construct.
type InternalError struct {
	Msg   string
	Panic interface{}
}

func (e *InternalError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("internal compiler error: %s: %v", e.Msg, e.Panic)
	}
	return fmt.Sprintf("internal compiler error: %s", e.Msg)
}

// Location returns the zero Span: an internal error reflects a
// violated compiler invariant, not a location in the user's source.
func (e *InternalError) Location() token.Span { return token.Synthetic }

func NewInternalError(msg string, recovered interface{}) *InternalError {
	return &InternalError{Msg: msg, Panic: recovered}
}
