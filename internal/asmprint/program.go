package asmprint

import (
	"fmt"

	"github.com/snakelang/snakec/internal/codegen"
)

// Render produces the complete NASM translation unit: the fixed
// preamble declaring external runtime symbols, the lifted function
// bodies (each already ending in its own ret, plus the funend_0
// sentinel), the start_here trampoline that saves the heap-base
// pointer into r15 before calling main, and the compiled main body.
func Render(funsInstrs, mainInstrs []codegen.Instr) string {
	return fmt.Sprintf(
		`section .text
global start_here
extern print_snake_val
extern snake_error
%sstart_here:
  push r15
  mov r15, rdi
  call main
  pop r15
  ret
main:
%s`,
		InstrsToString(funsInstrs),
		InstrsToString(mainInstrs),
	)
}
