// Package asmprint renders a codegen.Instr stream as NASM/Intel
// assembly text, and wraps a compiled program with the fixed preamble
// and epilogue the runtime expects.
package asmprint

import (
	"fmt"
	"strings"

	"github.com/snakelang/snakec/internal/codegen"
)

// InstrsToString renders one flat instruction list. Labels are
// emitted unindented; everything else gets a two-space indent.
func InstrsToString(instrs []codegen.Instr) string {
	var b strings.Builder
	for _, in := range instrs {
		if in.Op == codegen.OpLabel {
			fmt.Fprintf(&b, "%s:\n", in.Label)
			continue
		}
		b.WriteString("  ")
		b.WriteString(renderInstr(in))
		b.WriteString("\n")
	}
	return b.String()
}

func renderInstr(in codegen.Instr) string {
	switch in.Op {
	case codegen.OpMov:
		return renderMov(in.Mov)
	case codegen.OpAdd:
		return "add " + renderBin(in.Bin)
	case codegen.OpSub:
		return "sub " + renderBin(in.Bin)
	case codegen.OpIMul:
		return "imul " + renderBin(in.Bin)
	case codegen.OpSar:
		return "sar " + renderBin(in.Bin)
	case codegen.OpShl:
		return "shl " + renderBin(in.Bin)
	case codegen.OpShr:
		return "shr " + renderBin(in.Bin)
	case codegen.OpCmp:
		return "cmp " + renderBin(in.Bin)
	case codegen.OpAnd:
		return "and " + renderBin(in.Bin)
	case codegen.OpOr:
		return "or " + renderBin(in.Bin)
	case codegen.OpXor:
		return "xor " + renderBin(in.Bin)
	case codegen.OpJmp:
		return "jmp " + in.Label
	case codegen.OpJe:
		return "je " + in.Label
	case codegen.OpJne:
		return "jne " + in.Label
	case codegen.OpJl:
		return "jl " + in.Label
	case codegen.OpJg:
		return "jg " + in.Label
	case codegen.OpJle:
		return "jle " + in.Label
	case codegen.OpJge:
		return "jge " + in.Label
	case codegen.OpJz:
		return "jz " + in.Label
	case codegen.OpJo:
		return "jo " + in.Label
	case codegen.OpCall:
		return "call " + in.Label
	case codegen.OpRet:
		return "ret"
	case codegen.OpFld:
		return "fld " + renderFloatMem(in.FMem)
	case codegen.OpFild:
		return "fild " + renderFloatMem(in.FMem)
	case codegen.OpFstp:
		return "fstp " + renderFloatMem(in.FMem)
	case codegen.OpFistp:
		return "fistp " + renderFloatMem(in.FMem)
	case codegen.OpFld1:
		return "fld1"
	case codegen.OpFaddp:
		return "faddp"
	case codegen.OpFsubp:
		return "fsubp"
	case codegen.OpFmulp:
		return "fmulp"
	case codegen.OpFdivp:
		return "fdivp"
	case codegen.OpFcos:
		return "fcos"
	case codegen.OpFsqrt:
		return "fsqrt"
	case codegen.OpFcompp:
		return "fcompp"
	case codegen.OpFcomp:
		return "fcomp"
	case codegen.OpFcom:
		return "fcom"
	case codegen.OpFstsw:
		return "fstsw " + in.Float.Reg.String()
	default:
		panic("asmprint: unhandled instruction opcode")
	}
}

func renderMov(m codegen.MovArgs) string {
	if m.ToReg != nil {
		return "mov " + m.ToReg.Dst.String() + ", " + renderArg64(m.ToReg.Src)
	}
	return "mov " + renderMemRef(m.ToMem.Dst) + ", " + m.ToMem.Src.String()
}

func renderBin(b codegen.BinArgs) string {
	return b.Dst.String() + ", " + renderArg32(b.Src)
}

func renderArg64(a codegen.Arg64) string {
	switch a.Kind() {
	case codegen.Arg64Mem:
		return renderMemRef(*a.Mem)
	case codegen.Arg64Reg:
		return a.Reg.String()
	case codegen.Arg64Unsigned:
		return fmt.Sprintf("%d", a.Unsigned)
	default:
		return fmt.Sprintf("%d", a.Signed)
	}
}

func renderArg32(a codegen.Arg32) string {
	switch a.Kind() {
	case codegen.Arg32Reg:
		return a.Reg.String()
	case codegen.Arg32Unsigned:
		return fmt.Sprintf("%d", a.Unsigned)
	default:
		return fmt.Sprintf("%d", a.Signed)
	}
}

func renderMemRef(m codegen.MemRef) string {
	switch {
	case m.Offset == 0:
		return fmt.Sprintf("qword [%s]", m.Reg)
	case m.Offset > 0:
		return fmt.Sprintf("qword [%s+%d]", m.Reg, m.Offset)
	default:
		return fmt.Sprintf("qword [%s-%d]", m.Reg, -m.Offset)
	}
}

func renderFloatMem(m codegen.FloatMem) string {
	return renderMemRef(m.Mem)
}
