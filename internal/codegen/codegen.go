package codegen

import (
	"fmt"
	"math"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/seqir"
)

const (
	BoolMask  uint64 = 0x8000000000000000
	FloatMask uint64 = 0xFFFFFFFFE0000000

	SnakeTrue  uint64 = 0xFFFFFFFFFFFFFFFF
	SnakeFalse uint64 = 0x7FFFFFFFFFFFFFFF
)

type ErrorCode uint64

const (
	ArithError     ErrorCode = 0
	CompError      ErrorCode = 1
	OverflowError  ErrorCode = 2
	LogicError     ErrorCode = 3
	IfError        ErrorCode = 4
	DivisionError  ErrorCode = 5
	SqrtError      ErrorCode = 6
)

func varOffset(env []string, name string) int32 {
	for i, v := range env {
		if v == name {
			return -8 * (int32(i) + 1)
		}
	}
	panic("codegen: variable not found in environment: " + name)
}

// CompileWithEnv lowers one ANF expression into a flat instruction
// list, given the current value-slot environment, the frame's total
// slot count ("space"), and every function's captured-environment
// list (needed at every call site, internal or external).
func CompileWithEnv(e seqir.SeqExpr, env []string, space int32, funToEnv map[string][]string) []Instr {
	var instr []Instr
	switch n := e.(type) {
	case *seqir.ImmSeqExpr:
		immExpInstrs(n.Value, env, &instr)
	case *seqir.LetSeqExpr:
		letInstrs(n.Var, n.BoundExp, n.Body, env, &instr, space, funToEnv)
	case *seqir.IfSeqExpr:
		ifInstrs(n.Cond, n.Then, n.Else, n.GetTag(), env, &instr, space, funToEnv)
	case *seqir.PrimSeqExpr:
		primInstrs(n.Op, n.Args, n.GetTag(), env, &instr, space)
	case *seqir.InternalTailCallSeqExpr:
		incallInstr(n.FunName, n.Args, env, &instr, funToEnv)
	case *seqir.ExternalCallSeqExpr:
		excallInstr(n.FunName, n.Args, n.IsTail, env, &instr, space, funToEnv)
	case *seqir.FunDefsSeqExpr:
		fundefsInstr(n.Decls, n.Body, env, &instr, n.GetTag(), space, funToEnv)
	default:
		panic("codegen: unhandled SeqExpr variant")
	}
	return instr
}

func immExpInstrs(imm seqir.Imm, env []string, instr *[]Instr) {
	switch v := imm.(type) {
	case seqir.NumImm:
		*instr = append(*instr, Mov(MovToReg(Rax, Signed64(v.Value<<1))))
	case seqir.BoolImm:
		if v.Value {
			*instr = append(*instr, Mov(MovToReg(Rax, Unsigned64(SnakeTrue))))
		} else {
			*instr = append(*instr, Mov(MovToReg(Rax, Unsigned64(SnakeFalse))))
		}
	case seqir.VarImm:
		*instr = append(*instr, Mov(MovToReg(Rax, Mem64(MemRef{Reg: Rsp, Offset: varOffset(env, v.Name)}))))
	case seqir.FloatImm:
		*instr = append(*instr, stConstfloat(Rax, float32(v.Value))...)
	default:
		panic("codegen: unhandled Imm variant")
	}
}

func letInstrs(v string, bound, body seqir.SeqExpr, env []string, instr *[]Instr, space int32, funToEnv map[string][]string) {
	*instr = append(*instr, CompileWithEnv(bound, env, space, funToEnv)...)

	offset := int32(-8 * (len(env) + 1))
	for i, e := range env {
		if e == v {
			offset = -8 * (int32(i) + 1)
			break
		}
	}
	*instr = append(*instr, Mov(MovToMem(MemRef{Reg: Rsp, Offset: offset}, Rax)))

	newEnv := append([]string{}, env...)
	found := false
	for _, e := range newEnv {
		if e == v {
			found = true
			break
		}
	}
	if !found {
		newEnv = append(newEnv, v)
	}
	*instr = append(*instr, CompileWithEnv(body, newEnv, space, funToEnv)...)
}

func ifInstrs(cond seqir.Imm, thn, els seqir.SeqExpr, ann uint32, env []string, instr *[]Instr, space int32, funToEnv map[string][]string) {
	immExpInstrs(cond, env, instr)
	*instr = append(*instr, checkBool(Rax, IfError, true)...)
	*instr = append(*instr, Mov(MovToReg(R8, Unsigned64(SnakeFalse))))
	*instr = append(*instr, Cmp(ToReg(Rax, Reg32(R8))))
	*instr = append(*instr, Je(fmt.Sprintf("else_%d", ann)))
	*instr = append(*instr, CompileWithEnv(thn, env, space, funToEnv)...)
	*instr = append(*instr, Jmp(fmt.Sprintf("end_%d", ann)))
	*instr = append(*instr, Label(fmt.Sprintf("else_%d", ann)))
	*instr = append(*instr, CompileWithEnv(els, env, space, funToEnv)...)
	*instr = append(*instr, Label(fmt.Sprintf("end_%d", ann)))
}

func logicPrim(op ast.Prim, exps []seqir.Imm, env []string, instr *[]Instr) {
	if len(exps) == 1 {
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, LogicError, true)...)
	} else if len(exps) == 2 {
		immExpInstrs(exps[1], env, instr)
		*instr = append(*instr, checkBool(Rax, LogicError, true)...)
		*instr = append(*instr, Mov(MovToReg(R8, Reg64(Rax))))
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, LogicError, true)...)
	}
	switch op {
	case ast.Not:
		*instr = append(*instr, Mov(MovToReg(R8, Unsigned64(BoolMask))))
		*instr = append(*instr, Xor(ToReg(Rax, Reg32(R8))))
	case ast.And:
		*instr = append(*instr, And(ToReg(Rax, Reg32(R8))))
	case ast.Or:
		*instr = append(*instr, Or(ToReg(Rax, Reg32(R8))))
	default:
		panic("codegen: logicPrim saw a non-logic operator")
	}
}

func otherPrim(op ast.Prim, exps []seqir.Imm, env []string, instr *[]Instr, ann uint32, space int32) {
	switch op {
	case ast.Print:
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr,
			Mov(MovToReg(Rdi, Reg64(Rax))),
			Sub(ToReg(Rsp, Signed32(8*space))),
			Call("print_snake_val"),
			Add(ToReg(Rsp, Signed32(8*space))),
		)
	case ast.IsNum:
		emitTagTest(instr, 1, 0, fmt.Sprintf("isnum_done_%d", ann))
	case ast.IsBool:
		emitTagTest(instr, 3, 3, fmt.Sprintf("isbool_done_%d", ann))
	case ast.IsFloat:
		emitTagTest(instr, 3, 1, fmt.Sprintf("isfloat_done_%d", ann))
	default:
		panic("codegen: otherPrim saw an unexpected operator")
	}
}

// emitTagTest is the shared "mask, compare, SNAKE_TRUE-then-maybe-
// overwrite-with-SNAKE_FALSE" shape behind IsNum/IsBool/IsFloat.
func emitTagTest(instr *[]Instr, mask, want uint32, doneLabel string) {
	*instr = append(*instr,
		Mov(MovToReg(R9, Unsigned64(uint64(mask)))),
		And(ToReg(R9, Reg32(Rax))),
		Cmp(ToReg(R9, Unsigned32(want))),
		Mov(MovToReg(Rax, Unsigned64(SnakeTrue))),
		Jz(doneLabel),
		Mov(MovToReg(Rax, Unsigned64(SnakeFalse))),
		Label(doneLabel),
	)
}

func arithPrim(op ast.Prim, exps []seqir.Imm, ann uint32, env []string, instr *[]Instr) {
	offset := int32(-8 * (len(env) + 1))
	if len(exps) == 1 {
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, ArithError, false)...)
	} else if len(exps) == 2 {
		immExpInstrs(exps[1], env, instr)
		*instr = append(*instr, checkBool(Rax, ArithError, false)...)
		*instr = append(*instr, Mov(MovToReg(R8, Reg64(Rax))))
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, ArithError, false)...)
	}

	switch op {
	case ast.Add1:
		instr1 := append([]Instr{Add(ToReg(Rax, Signed32(1<<1)))}, checkOverflow()...)
		instr2 := []Instr{Fld1(), Faddp(FBlank())}
		unaryop(instr1, instr2, ann, offset, instr)

	case ast.Sub1:
		instr1 := append([]Instr{Sub(ToReg(Rax, Signed32(1<<1)))}, checkOverflow()...)
		instr2 := []Instr{Fld1(), Fsubp(FBlank())}
		unaryop(instr1, instr2, ann, offset, instr)

	case ast.Add:
		instr1 := append([]Instr{Add(ToReg(Rax, Reg32(R8)))}, checkOverflow()...)
		instr2 := append([]Instr{Faddp(FBlank())}, checkFloatOverflow(ann, offset)...)
		instr2 = append(instr2, stFloatToReg(Rax, offset)...)
		binop(instr1, instr2, ann, offset, instr)

	case ast.Sub:
		instr1 := append([]Instr{Sub(ToReg(Rax, Reg32(R8)))}, checkOverflow()...)
		instr2 := append([]Instr{Fsubp(FBlank())}, checkFloatOverflow(ann, offset)...)
		instr2 = append(instr2, stFloatToReg(Rax, offset)...)
		binop(instr1, instr2, ann, offset, instr)

	case ast.Mul:
		instr1 := []Instr{
			Sar(ToReg(R8, Unsigned32(1))),
			Sar(ToReg(Rax, Unsigned32(1))),
			IMul(ToReg(Rax, Reg32(R8))),
		}
		instr1 = append(instr1, checkOverflow()...)
		instr1 = append(instr1, Shl(ToReg(Rax, Unsigned32(1))))
		instr2 := append([]Instr{Fmulp(FBlank())}, checkFloatOverflow(ann, offset)...)
		instr2 = append(instr2, stFloatToReg(Rax, offset)...)
		binop(instr1, instr2, ann, offset, instr)

	case ast.Div:
		var instr1 []Instr
		instr1 = append(instr1, ldNumFromReg(Rax, offset)...)
		instr1 = append(instr1, ldNumFromReg(R8, offset)...)
		instr1 = append(instr1, checkDivisionZeroNum(R8, ann)...)
		instr1 = append(instr1, Fdivp(FBlank()))
		instr1 = append(instr1, stFloatToReg(Rax, offset)...)

		instr2 := checkDivisionZeroFloat(ann, offset)
		instr2 = append(instr2, Fdivp(FBlank()))
		instr2 = append(instr2, checkFloatOverflow(ann, offset)...)
		instr2 = append(instr2, stFloatToReg(Rax, offset)...)
		binop(instr1, instr2, ann, offset, instr)

	case ast.FloorDiv:
		var instr1 []Instr
		instr1 = append(instr1, ldNumFromReg(Rax, offset)...)
		instr1 = append(instr1, ldNumFromReg(R8, offset)...)
		instr1 = append(instr1, checkDivisionZeroNum(R8, ann)...)
		instr1 = append(instr1, Fdivp(FBlank()))
		instr1 = append(instr1, stFloornumToReg(Rax, offset)...)

		instr2 := checkDivisionZeroFloat(ann, offset)
		instr2 = append(instr2, Fdivp(FBlank()))
		instr2 = append(instr2, checkFloatOverflow(ann, offset)...)
		instr2 = append(instr2, stFloornumToReg(Rax, offset)...)
		binop(instr1, instr2, ann, offset, instr)

	case ast.Cos:
		var instr1 []Instr
		instr1 = append(instr1, ldNumFromReg(Rax, offset)...)
		instr1 = append(instr1, Fcos())
		instr1 = append(instr1, stFloatToReg(Rax, offset)...)
		instr2 := []Instr{Fcos()}
		unaryop(instr1, instr2, ann, offset, instr)

	case ast.Sqrt:
		var instr1 []Instr
		instr1 = append(instr1, checkSqrtNum(Rax, ann)...)
		instr1 = append(instr1, ldNumFromReg(Rax, offset)...)
		instr1 = append(instr1, Fsqrt())
		instr1 = append(instr1, stFloatToReg(Rax, offset)...)
		instr2 := checkSqrtFloat(ann, offset)
		instr2 = append(instr2, Fsqrt())
		unaryop(instr1, instr2, ann, offset, instr)

	default:
		panic("codegen: arithPrim saw a non-arithmetic operator")
	}
}

func compPrim(op ast.Prim, exps []seqir.Imm, ann uint32, env []string, instr *[]Instr) {
	offset := int32(-8 * (len(env) + 1))
	if len(exps) == 1 {
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, CompError, false)...)
	} else if len(exps) == 2 {
		immExpInstrs(exps[1], env, instr)
		*instr = append(*instr, checkBool(Rax, CompError, false)...)
		*instr = append(*instr, Mov(MovToReg(R8, Reg64(Rax))))
		immExpInstrs(exps[0], env, instr)
		*instr = append(*instr, checkBool(Rax, CompError, false)...)
	}

	switch op {
	case ast.Lt, ast.Gt, ast.Le, ast.Ge, ast.Eq, ast.Neq:
		label := compLabel(op)
		var instr1 []Instr
		instr1 = append(instr1, Cmp(ToReg(Rax, Reg32(R8))))
		instr1 = append(instr1, Mov(MovToReg(Rax, Unsigned64(SnakeTrue))))
		instr1 = append(instr1, compJump(op, fmt.Sprintf("%s_%d", label, ann)))
		instr1 = append(instr1, Mov(MovToReg(Rax, Unsigned64(SnakeFalse))))
		instr1 = append(instr1, Label(fmt.Sprintf("%s_%d", label, ann)))

		// r8 > rax, so rax < r8
		larger := []Instr{Mov(MovToReg(Rax, Unsigned64(compResult(op, "larger"))))}
		// r8 < rax, so rax > r8
		smaller := []Instr{Mov(MovToReg(Rax, Unsigned64(compResult(op, "smaller"))))}
		// r8 == rax, so rax == r8
		equal := []Instr{Mov(MovToReg(Rax, Unsigned64(compResult(op, "equal"))))}

		instr2 := cmpFloats(
			cmpBranch{larger, fmt.Sprintf("logic_larger_%d", ann)},
			cmpBranch{smaller, fmt.Sprintf("logic_smaller_%d", ann)},
			cmpBranch{equal, fmt.Sprintf("logic_equal_%d", ann)},
			fmt.Sprintf("cmp_done_%d", ann),
			2,
		)
		binop(instr1, instr2, ann, offset, instr)

	default:
		panic("codegen: compPrim saw a non-comparison operator")
	}
}

func compLabel(op ast.Prim) string {
	switch op {
	case ast.Ge:
		return "greater_equal"
	case ast.Eq:
		return "equal"
	case ast.Neq:
		return "not_equal"
	case ast.Lt:
		return "less_than"
	case ast.Gt:
		return "greater_than"
	case ast.Le:
		return "less_equal"
	default:
		panic("codegen: invalid comparison operator")
	}
}

func compJump(op ast.Prim, label string) Instr {
	switch op {
	case ast.Ge:
		return Jge(label)
	case ast.Eq:
		return Je(label)
	case ast.Neq:
		return Jne(label)
	case ast.Lt:
		return Jl(label)
	case ast.Gt:
		return Jg(label)
	case ast.Le:
		return Jle(label)
	default:
		panic("codegen: invalid comparison operator")
	}
}

// compResult returns the boolean result (as a SNAKE_TRUE/SNAKE_FALSE
// bit pattern) for operator op when the float comparison landed in the
// named branch ("larger" means rax < r8, "smaller" means rax > r8,
// "equal" means rax == r8 — see cmpFloats).
func compResult(op ast.Prim, branch string) uint64 {
	table := map[ast.Prim]map[string]uint64{
		ast.Ge:  {"larger": SnakeFalse, "smaller": SnakeTrue, "equal": SnakeTrue},
		ast.Eq:  {"larger": SnakeFalse, "smaller": SnakeFalse, "equal": SnakeTrue},
		ast.Neq: {"larger": SnakeTrue, "smaller": SnakeTrue, "equal": SnakeFalse},
		ast.Lt:  {"larger": SnakeTrue, "smaller": SnakeFalse, "equal": SnakeFalse},
		ast.Gt:  {"larger": SnakeFalse, "smaller": SnakeTrue, "equal": SnakeFalse},
		ast.Le:  {"larger": SnakeTrue, "smaller": SnakeFalse, "equal": SnakeTrue},
	}
	return table[op][branch]
}

func primInstrs(op ast.Prim, exps []seqir.Imm, ann uint32, env []string, instr *[]Instr, space int32) {
	switch op {
	case ast.Add1, ast.Sub1, ast.Add, ast.Sub, ast.Mul, ast.Div, ast.FloorDiv, ast.Cos, ast.Sqrt:
		arithPrim(op, exps, ann, env, instr)
	case ast.Lt, ast.Gt, ast.Le, ast.Ge, ast.Eq, ast.Neq:
		compPrim(op, exps, ann, env, instr)
	case ast.And, ast.Or, ast.Not:
		logicPrim(op, exps, env, instr)
	case ast.Print, ast.IsBool, ast.IsNum, ast.IsFloat:
		otherPrim(op, exps, env, instr, ann, space)
	default:
		panic("codegen: primInstrs saw an unhandled operator")
	}
}

func checkDivisionZeroNum(reg Reg, ann uint32) []Instr {
	notZero := fmt.Sprintf("not_zero_%d", ann)
	return []Instr{
		Mov(MovToReg(R9, Unsigned64(0))),
		Cmp(ToReg(R9, Reg32(reg))),
		Jne(notZero),
		Mov(MovToReg(Rdi, Unsigned64(uint64(DivisionError)))),
		Jmp("snake_error"),
		Label(notZero),
	}
}

func checkSqrtNum(reg Reg, ann uint32) []Instr {
	notLtZero := fmt.Sprintf("not_lt_zero_%d", ann)
	return []Instr{
		Mov(MovToReg(R9, Unsigned64(0))),
		Cmp(ToReg(R9, Reg32(reg))),
		Jle(notLtZero),
		Mov(MovToReg(Rdi, Unsigned64(uint64(SqrtError)))),
		Jmp("snake_error"),
		Label(notLtZero),
	}
}

func checkDivisionZeroFloat(ann uint32, offset int32) []Instr {
	instr := ldConstfloat(0.0, offset)
	equal := []Instr{
		Mov(MovToReg(Rdi, Unsigned64(uint64(DivisionError)))),
		Jmp("snake_error"),
	}
	instr = append(instr, cmpFloats(
		cmpBranch{nil, fmt.Sprintf("check_div_larger_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("check_div_smaller_%d", ann)},
		cmpBranch{equal, fmt.Sprintf("check_div_equal_%d", ann)},
		fmt.Sprintf("cmp_done_%d", ann),
		1,
	)...)
	return instr
}

func checkSqrtFloat(ann uint32, offset int32) []Instr {
	instr := ldConstfloat(0.0, offset)
	larger := []Instr{
		Mov(MovToReg(Rdi, Unsigned64(uint64(SqrtError)))),
		Jmp("snake_error"),
	}
	instr = append(instr, cmpFloats(
		cmpBranch{larger, fmt.Sprintf("check_sqrt_larger_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("check_sqrt_smaller_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("check_sqrt_equal_%d", ann)},
		fmt.Sprintf("cmp_done_%d", ann),
		1,
	)...)
	return instr
}

func checkOverflow() []Instr {
	return []Instr{
		Mov(MovToReg(Rdi, Unsigned64(uint64(OverflowError)))),
		Jo("snake_error"),
	}
}

func unaryop(instr1, instr2 []Instr, ann uint32, offset int32, instr *[]Instr) {
	label := fmt.Sprintf("when_float_%d", ann)
	done := fmt.Sprintf("done_%d", ann)
	*instr = append(*instr, ifFloat(Rax, label)...)

	*instr = append(*instr, instr1...)
	*instr = append(*instr, Jmp(done))

	*instr = append(*instr, Label(label))
	*instr = append(*instr, ldFloatFromReg(Rax, offset)...)
	*instr = append(*instr, instr2...)
	*instr = append(*instr, checkFloatOverflow(ann, offset)...)
	*instr = append(*instr, stFloatToReg(Rax, offset)...)

	*instr = append(*instr, Label(done))
}

func binop(instr1, instr2 []Instr, ann uint32, offset int32, instr *[]Instr) {
	firstFloat := fmt.Sprintf("first_float_%d", ann)
	secondFloat := fmt.Sprintf("second_float_%d", ann)
	handleFloats := fmt.Sprintf("handle_float_%d", ann)
	done := fmt.Sprintf("done_%d", ann)

	*instr = append(*instr, ifFloat(Rax, firstFloat)...)
	*instr = append(*instr, ifFloat(R8, secondFloat)...)

	*instr = append(*instr, instr1...)
	*instr = append(*instr, Jmp(done))

	*instr = append(*instr, Label(firstFloat))
	bothFloats := fmt.Sprintf("both_floats_%d", ann)
	*instr = append(*instr, ifFloat(R8, bothFloats)...)

	*instr = append(*instr, ldFloatFromReg(Rax, offset)...)
	*instr = append(*instr, ldNumFromReg(R8, offset)...)
	*instr = append(*instr, Jmp(handleFloats))

	*instr = append(*instr, Label(bothFloats))
	*instr = append(*instr, ldFloatFromReg(Rax, offset)...)
	*instr = append(*instr, ldFloatFromReg(R8, offset)...)
	*instr = append(*instr, Jmp(handleFloats))

	*instr = append(*instr, Label(secondFloat))
	*instr = append(*instr, ldNumFromReg(Rax, offset)...)
	*instr = append(*instr, ldFloatFromReg(R8, offset)...)

	*instr = append(*instr, Label(handleFloats))
	*instr = append(*instr, instr2...)

	*instr = append(*instr, Label(done))
}

func checkBool(reg Reg, code ErrorCode, isOrNot bool) []Instr {
	jump := Je("snake_error")
	if isOrNot {
		jump = Jne("snake_error")
	}
	return []Instr{
		Mov(MovToReg(R9, Unsigned64(3))),
		And(ToReg(R9, Reg32(reg))),
		Cmp(ToReg(R9, Unsigned32(3))),
		Mov(MovToReg(Rdi, Unsigned64(uint64(code)))),
		jump,
	}
}

func ifFloat(reg Reg, label string) []Instr {
	return []Instr{
		Mov(MovToReg(R9, Unsigned64(1))),
		And(ToReg(R9, Reg32(reg))),
		Cmp(ToReg(R9, Unsigned32(1))),
		Je(label),
	}
}

func ldFloatFromReg(reg Reg, offset int32) []Instr {
	return []Instr{
		Sub(ToReg(reg, Unsigned32(1))),
		Mov(MovToMem(MemRef{Reg: Rsp, Offset: offset}, reg)),
		Fld(FloatMem{Mem: MemRef{Reg: Rsp, Offset: offset}}),
	}
}

// ldNumFromReg strips the integer tag bit before loading the value
// onto the FPU stack. Snake integers are stored as n<<1 with the sign
// preserved, so this must be an arithmetic shift, not a logical one.
func ldNumFromReg(reg Reg, offset int32) []Instr {
	return []Instr{
		Sar(ToReg(reg, Unsigned32(1))),
		Mov(MovToMem(MemRef{Reg: Rsp, Offset: offset}, reg)),
		Fild(FloatMem{Mem: MemRef{Reg: Rsp, Offset: offset}}),
	}
}

func stConstfloat(reg Reg, f float32) []Instr {
	return []Instr{
		Mov(MovToReg(reg, Unsigned64(math.Float64bits(float64(f))))),
		Add(ToReg(reg, Unsigned32(1))),
	}
}

func ldConstfloat(f float32, offset int32) []Instr {
	return []Instr{
		Mov(MovToReg(R9, Unsigned64(math.Float64bits(float64(f))))),
		Mov(MovToMem(MemRef{Reg: Rsp, Offset: offset}, R9)),
		Fld(FloatMem{Mem: MemRef{Reg: Rsp, Offset: offset}}),
	}
}

func stFloatToReg(reg Reg, offset int32) []Instr {
	return []Instr{
		Fstp(FloatMem{Mem: MemRef{Reg: Rsp, Offset: offset}}),
		Mov(MovToReg(reg, Mem64(MemRef{Reg: Rsp, Offset: offset}))),
		Mov(MovToReg(R9, Unsigned64(FloatMask))),
		Add(ToReg(reg, Unsigned32(0x10000000))),
		And(ToReg(reg, Reg32(R9))),
		Add(ToReg(reg, Unsigned32(1))),
	}
}

func stFloornumToReg(reg Reg, offset int32) []Instr {
	instr := ldConstfloat(0.5, offset)
	instr = append(instr,
		Fsubp(FBlank()),
		Fistp(FloatMem{Mem: MemRef{Reg: Rsp, Offset: offset}}),
		Mov(MovToReg(reg, Mem64(MemRef{Reg: Rsp, Offset: offset}))),
		Shl(ToReg(reg, Unsigned32(1))),
	)
	return instr
}

type cmpBranch struct {
	instrs []Instr
	label  string
}

// cmpFloats compares the top two x87 stack values (fcompp/fcomp/fcom
// selected by pop: 2/1/0), reads the status word into ax, and
// dispatches to the larger/smaller/equal branch. "larger" means the
// second-pushed operand is bigger (i.e. r8 > rax before the push
// order used by the caller, so semantically rax < r8); "smaller"
// means rax > r8.
func cmpFloats(larger, smaller, equal cmpBranch, done string, pop int) []Instr {
	var cmpOp Instr
	switch pop {
	case 2:
		cmpOp = Fcompp(FBlank())
	case 1:
		cmpOp = Fcomp(FBlank())
	case 0:
		cmpOp = Fcom(FBlank())
	default:
		panic("codegen: cmpFloats given an invalid pop count")
	}
	instr := []Instr{
		cmpOp,
		Fstsw(FReg(Ax)),
		And(ToReg(Ax, Unsigned32(0x4100))),
		Cmp(ToReg(Ax, Unsigned32(0x4000))),
		Je(equal.label),
		Cmp(ToReg(Ax, Unsigned32(0x0100))),
		Je(smaller.label),
	}
	instr = append(instr, larger.instrs...)
	instr = append(instr, Jmp(done))
	instr = append(instr, Label(equal.label))
	instr = append(instr, equal.instrs...)
	instr = append(instr, Jmp(done))
	instr = append(instr, Label(smaller.label))
	instr = append(instr, smaller.instrs...)
	instr = append(instr, Label(done))
	return instr
}

// float32 bounds as f64, matching Rust's f32::MAX/f32::MIN promoted to
// the f64 constant-load helper.
var (
	f32Max = float32(math.MaxFloat32)
	f32Min = -f32Max
)

func checkFloatOverflow(ann uint32, offset int32) []Instr {
	var instr []Instr

	instr = append(instr, ldConstfloat(f32Max, offset)...)
	smaller := []Instr{
		Mov(MovToReg(Rdi, Unsigned64(uint64(OverflowError)))),
		Jmp("snake_error"),
	}
	instr = append(instr, cmpFloats(
		cmpBranch{nil, fmt.Sprintf("checkfloatover1_larger_%d", ann)},
		cmpBranch{smaller, fmt.Sprintf("checkfloatover1_smaller_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("checkfloatover1_equal_%d", ann)},
		fmt.Sprintf("overflow1_done_%d", ann),
		1,
	)...)

	instr = append(instr, ldConstfloat(f32Min, offset)...)
	larger := []Instr{
		Mov(MovToReg(Rdi, Unsigned64(uint64(OverflowError)))),
		Jmp("snake_error"),
	}
	instr = append(instr, cmpFloats(
		cmpBranch{larger, fmt.Sprintf("checkfloatover2_larger_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("checkfloatover2_smaller_%d", ann)},
		cmpBranch{nil, fmt.Sprintf("checkfloatover2_equal_%d", ann)},
		fmt.Sprintf("overflow2_done_%d", ann),
		1,
	)...)

	return instr
}

func excallInstr(funName string, args []seqir.Imm, isTail bool, env []string, instr *[]Instr, space int32, funToEnv map[string][]string) {
	if isTail {
		incallInstr(funName, args, env, instr, funToEnv)
		return
	}
	capturedEnv, ok := funToEnv[funName]
	if !ok {
		panic("codegen: excallInstr found no captured environment for " + funName)
	}
	for i, e := range capturedEnv {
		*instr = append(*instr,
			Mov(MovToReg(Rax, Mem64(MemRef{Reg: Rsp, Offset: varOffset(env, e)}))),
			Mov(MovToMem(MemRef{Reg: Rsp, Offset: -8 * (space + 2 + int32(i))}, Rax)),
		)
	}
	for i, a := range args {
		name := argVarName(a)
		*instr = append(*instr,
			Mov(MovToReg(Rax, Mem64(MemRef{Reg: Rsp, Offset: varOffset(env, name)}))),
			Mov(MovToMem(MemRef{Reg: Rsp, Offset: -8 * (space + 2 + int32(i) + int32(len(capturedEnv)))}, Rax)),
		)
	}
	*instr = append(*instr,
		Sub(ToReg(Rsp, Signed32(8*space))),
		Call(funName),
		Add(ToReg(Rsp, Signed32(8*space))),
	)
}

func incallInstr(funName string, args []seqir.Imm, env []string, instr *[]Instr, funToEnv map[string][]string) {
	capturedEnv, ok := funToEnv[funName]
	if !ok {
		panic("codegen: incallInstr found no captured environment for " + funName)
	}
	for i, e := range capturedEnv {
		*instr = append(*instr,
			Mov(MovToReg(Rax, Mem64(MemRef{Reg: Rsp, Offset: varOffset(env, e)}))),
			Mov(MovToMem(MemRef{Reg: Rsp, Offset: -8 * (int32(i) + 1)}, Rax)),
		)
	}
	for i, a := range args {
		name := argVarName(a)
		*instr = append(*instr,
			Mov(MovToReg(Rax, Mem64(MemRef{Reg: Rsp, Offset: varOffset(env, name)}))),
			Mov(MovToMem(MemRef{Reg: Rsp, Offset: -8 * (int32(len(capturedEnv)) + int32(i) + 1)}, Rax)),
		)
	}
	*instr = append(*instr, Jmp(funName))
}

func argVarName(a seqir.Imm) string {
	v, ok := a.(seqir.VarImm)
	if !ok {
		panic("codegen: call argument was not sequentialized to a variable")
	}
	return v.Name
}

func fundefsInstr(decls []*seqir.SeqFunDecl, body seqir.SeqExpr, env []string, instr *[]Instr, ann uint32, space int32, funToEnv map[string][]string) {
	funend := fmt.Sprintf("funend_%d", ann)
	*instr = append(*instr, Jmp(funend))
	for _, decl := range decls {
		*instr = append(*instr, Label(decl.Name))
		capturedEnv, ok := funToEnv[decl.Name]
		if !ok {
			panic("codegen: fundefsInstr found no captured environment for " + decl.Name)
		}
		newEnv := append([]string{}, capturedEnv...)
		for _, p := range decl.Parameters {
			found := false
			for _, e := range newEnv {
				if e == p {
					found = true
					break
				}
			}
			if !found {
				newEnv = append(newEnv, p)
			}
		}
		*instr = append(*instr, CompileWithEnv(decl.Body, newEnv, space, funToEnv)...)
		*instr = append(*instr, Ret())
	}
	*instr = append(*instr, Label(funend))
	*instr = append(*instr, CompileWithEnv(body, env, space, funToEnv)...)
}
