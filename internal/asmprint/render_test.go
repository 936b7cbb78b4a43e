package asmprint_test

import (
	"strings"
	"testing"

	"github.com/snakelang/snakec/internal/asmprint"
	"github.com/snakelang/snakec/internal/codegen"
)

func TestInstrsToString_LabelsAreUnindented(t *testing.T) {
	instrs := []codegen.Instr{
		codegen.Label("foo"),
		codegen.Ret(),
	}
	got := asmprint.InstrsToString(instrs)
	want := "foo:\n  ret\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInstrsToString_MovToRegAndMem(t *testing.T) {
	instrs := []codegen.Instr{
		codegen.Mov(codegen.MovToReg(codegen.Rax, codegen.Signed64(7))),
		codegen.Mov(codegen.MovToMem(codegen.MemRef{Reg: codegen.Rsp, Offset: -16}, codegen.Rax)),
	}
	got := asmprint.InstrsToString(instrs)
	if !strings.Contains(got, "mov rax, 7\n") {
		t.Fatalf("expected a mov-to-reg line, got %q", got)
	}
	if !strings.Contains(got, "mov qword [rsp-16], rax\n") {
		t.Fatalf("expected a mov-to-mem line, got %q", got)
	}
}

func TestInstrsToString_MemRefOffsetSign(t *testing.T) {
	cases := []struct {
		offset int32
		want   string
	}{
		{0, "qword [rsp]"},
		{8, "qword [rsp+8]"},
		{-8, "qword [rsp-8]"},
	}
	for _, c := range cases {
		instrs := []codegen.Instr{
			codegen.Mov(codegen.MovToMem(codegen.MemRef{Reg: codegen.Rsp, Offset: c.offset}, codegen.Rax)),
		}
		got := asmprint.InstrsToString(instrs)
		if !strings.Contains(got, c.want) {
			t.Fatalf("offset %d: expected %q in %q", c.offset, c.want, got)
		}
	}
}

func TestInstrsToString_BinaryOpsRenderMnemonicAndOperands(t *testing.T) {
	instrs := []codegen.Instr{
		codegen.Add(codegen.ToReg(codegen.Rax, codegen.Signed32(2))),
		codegen.Sub(codegen.ToReg(codegen.Rsp, codegen.Signed32(24))),
		codegen.Cmp(codegen.ToReg(codegen.Rax, codegen.Reg32(codegen.Rdi))),
	}
	got := asmprint.InstrsToString(instrs)
	for _, line := range []string{"add rax, 2\n", "sub rsp, 24\n", "cmp rax, rdi\n"} {
		if !strings.Contains(got, line) {
			t.Fatalf("expected %q in:\n%s", line, got)
		}
	}
}

func TestInstrsToString_JumpsAndCallsUseTheirLabel(t *testing.T) {
	instrs := []codegen.Instr{
		codegen.Jmp("loop_start"),
		codegen.Je("done"),
		codegen.Call("helper"),
	}
	got := asmprint.InstrsToString(instrs)
	for _, line := range []string{"jmp loop_start\n", "je done\n", "call helper\n"} {
		if !strings.Contains(got, line) {
			t.Fatalf("expected %q in:\n%s", line, got)
		}
	}
}

func TestRender_EmitsFixedPreambleAndEpilogue(t *testing.T) {
	funs := []codegen.Instr{codegen.Label("f"), codegen.Ret()}
	main := []codegen.Instr{codegen.Ret()}
	got := asmprint.Render(funs, main)

	for _, want := range []string{
		"section .text",
		"global start_here",
		"extern print_snake_val",
		"extern snake_error",
		"start_here:",
		"call main",
		"main:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected rendered program to contain %q, got:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "f:\n  ret\n") {
		t.Fatalf("expected lifted function body to be embedded before main:, got:\n%s", got)
	}
}
