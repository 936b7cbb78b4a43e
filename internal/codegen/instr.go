// Package codegen lowers tagged ANF (internal/seqir) to a flat x86-64
// instruction list. The instruction set models exactly the operand
// shapes the generator needs (no general-purpose assembler); its
// names and structure follow the original compiler's asm module, whose
// source was not part of the retrieved reference material and is
// reconstructed here purely from how compile_with_env used it.
package codegen

// Reg is a general-purpose or FPU-adjacent register.
type Reg int

const (
	Rax Reg = iota
	Rdi
	Rsp
	R8
	R9
	Ax // 16-bit alias of Rax, used only by Fstsw
)

func (r Reg) String() string {
	switch r {
	case Rax:
		return "rax"
	case Rdi:
		return "rdi"
	case Rsp:
		return "rsp"
	case R8:
		return "r8"
	case R9:
		return "r9"
	case Ax:
		return "ax"
	default:
		return "<reg>"
	}
}

// MemRef is a register-plus-displacement memory operand.
type MemRef struct {
	Reg    Reg
	Offset int32
}

// Arg64 is a 64-bit source operand.
type Arg64 struct {
	Signed   int64
	Unsigned uint64
	Reg      Reg
	Mem      *MemRef
	kind     arg64Kind
}

type arg64Kind int

const (
	Arg64Signed arg64Kind = iota
	Arg64Unsigned
	Arg64Reg
	Arg64Mem
)

func Signed64(n int64) Arg64    { return Arg64{Signed: n, kind: Arg64Signed} }
func Unsigned64(n uint64) Arg64 { return Arg64{Unsigned: n, kind: Arg64Unsigned} }
func Reg64(r Reg) Arg64         { return Arg64{Reg: r, kind: Arg64Reg} }
func Mem64(m MemRef) Arg64      { return Arg64{Mem: &m, kind: Arg64Mem} }

// Kind reports which field of Arg64 is populated.
func (a Arg64) Kind() arg64Kind { return a.kind }

// Arg32 is a 32-bit source operand (used by Cmp/arith/bitwise ops,
// which the original operates on via 32-bit immediates/registers even
// though the values they touch are conceptually 64-bit tagged words).
type Arg32 struct {
	Signed   int32
	Unsigned uint32
	Reg      Reg
	kind     arg32Kind
}

type arg32Kind int

const (
	Arg32Signed arg32Kind = iota
	Arg32Unsigned
	Arg32Reg
)

func Signed32(n int32) Arg32    { return Arg32{Signed: n, kind: Arg32Signed} }
func Unsigned32(n uint32) Arg32 { return Arg32{Unsigned: n, kind: Arg32Unsigned} }
func Reg32(r Reg) Arg32         { return Arg32{Reg: r, kind: Arg32Reg} }

// Kind reports which field of Arg32 is populated.
func (a Arg32) Kind() arg32Kind { return a.kind }

// MovArgs distinguishes a mov into a register from a mov into memory.
type MovArgs struct {
	ToReg *movToReg
	ToMem *movToMem
}

type movToReg struct {
	Dst Reg
	Src Arg64
}

type movToMem struct {
	Dst MemRef
	Src Reg
}

func MovToReg(dst Reg, src Arg64) MovArgs { return MovArgs{ToReg: &movToReg{Dst: dst, Src: src}} }
func MovToMem(dst MemRef, src Reg) MovArgs { return MovArgs{ToMem: &movToMem{Dst: dst, Src: src}} }

// BinArgs is the operand pair for a dst-register binary instruction.
type BinArgs struct {
	Dst Reg
	Src Arg32
}

func ToReg(dst Reg, src Arg32) BinArgs { return BinArgs{Dst: dst, Src: src} }

// FloatArg distinguishes an x87-stack-only operand from one that also
// names a general register (used only by Fstsw).
type FloatArg struct {
	HasReg bool
	Reg    Reg
}

func FBlank() FloatArg        { return FloatArg{} }
func FReg(r Reg) FloatArg      { return FloatArg{HasReg: true, Reg: r} }

// FloatMem is the memory operand for Fld/Fild/Fstp/Fistp.
type FloatMem struct {
	Mem MemRef
}

// Instr is one emitted instruction.
type Instr struct {
	Op    Op
	Mov   MovArgs
	Bin   BinArgs
	Label string // Label/Jmp/Je/Jne/Jl/Jg/Jle/Jge/Jz/Jo/Call target or the label name itself
	Float FloatArg
	FMem  FloatMem
}

type Op int

const (
	OpMov Op = iota
	OpAdd
	OpSub
	OpIMul
	OpSar
	OpShl
	OpShr
	OpCmp
	OpAnd
	OpOr
	OpXor
	OpJmp
	OpJe
	OpJne
	OpJl
	OpJg
	OpJle
	OpJge
	OpJz
	OpJo
	OpCall
	OpRet
	OpLabel
	OpFld
	OpFild
	OpFstp
	OpFistp
	OpFld1
	OpFaddp
	OpFsubp
	OpFmulp
	OpFdivp
	OpFcos
	OpFsqrt
	OpFcompp
	OpFcomp
	OpFcom
	OpFstsw
)

func Mov(m MovArgs) Instr      { return Instr{Op: OpMov, Mov: m} }
func Add(b BinArgs) Instr      { return Instr{Op: OpAdd, Bin: b} }
func Sub(b BinArgs) Instr      { return Instr{Op: OpSub, Bin: b} }
func IMul(b BinArgs) Instr     { return Instr{Op: OpIMul, Bin: b} }
func Sar(b BinArgs) Instr      { return Instr{Op: OpSar, Bin: b} }
func Shl(b BinArgs) Instr      { return Instr{Op: OpShl, Bin: b} }
func Cmp(b BinArgs) Instr      { return Instr{Op: OpCmp, Bin: b} }
func And(b BinArgs) Instr      { return Instr{Op: OpAnd, Bin: b} }
func Or(b BinArgs) Instr       { return Instr{Op: OpOr, Bin: b} }
func Xor(b BinArgs) Instr      { return Instr{Op: OpXor, Bin: b} }
func Jmp(label string) Instr   { return Instr{Op: OpJmp, Label: label} }
func Je(label string) Instr    { return Instr{Op: OpJe, Label: label} }
func Jne(label string) Instr   { return Instr{Op: OpJne, Label: label} }
func Jl(label string) Instr    { return Instr{Op: OpJl, Label: label} }
func Jg(label string) Instr    { return Instr{Op: OpJg, Label: label} }
func Jle(label string) Instr   { return Instr{Op: OpJle, Label: label} }
func Jge(label string) Instr   { return Instr{Op: OpJge, Label: label} }
func Jz(label string) Instr    { return Instr{Op: OpJz, Label: label} }
func Jo(label string) Instr    { return Instr{Op: OpJo, Label: label} }
func Call(label string) Instr  { return Instr{Op: OpCall, Label: label} }
func Ret() Instr               { return Instr{Op: OpRet} }
func Label(label string) Instr { return Instr{Op: OpLabel, Label: label} }
func Fld(m FloatMem) Instr     { return Instr{Op: OpFld, FMem: m} }
func Fild(m FloatMem) Instr    { return Instr{Op: OpFild, FMem: m} }
func Fstp(m FloatMem) Instr    { return Instr{Op: OpFstp, FMem: m} }
func Fistp(m FloatMem) Instr   { return Instr{Op: OpFistp, FMem: m} }
func Fld1() Instr              { return Instr{Op: OpFld1} }
func Faddp(f FloatArg) Instr   { return Instr{Op: OpFaddp, Float: f} }
func Fsubp(f FloatArg) Instr   { return Instr{Op: OpFsubp, Float: f} }
func Fmulp(f FloatArg) Instr   { return Instr{Op: OpFmulp, Float: f} }
func Fdivp(f FloatArg) Instr   { return Instr{Op: OpFdivp, Float: f} }
func Fcos() Instr               { return Instr{Op: OpFcos} }
func Fsqrt() Instr              { return Instr{Op: OpFsqrt} }
func Fcompp(f FloatArg) Instr  { return Instr{Op: OpFcompp, Float: f} }
func Fcomp(f FloatArg) Instr   { return Instr{Op: OpFcomp, Float: f} }
func Fcom(f FloatArg) Instr    { return Instr{Op: OpFcom, Float: f} }
func Fstsw(f FloatArg) Instr   { return Instr{Op: OpFstsw, Float: f} }
