package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Format renders a compile error to w, colorizing the "error:" prefix
// when w is a terminal. Driven by isatty the way cmd/funxy decides
// whether to colorize its own diagnostic output.
func Format(w io.Writer, err error) {
	red, reset := "", ""
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		red, reset = colorRed, colorReset
	}
	if ce, ok := err.(CompileError); ok {
		fmt.Fprintf(w, "%serror%s: %s\n  at %s\n", red, reset, ce.Error(), ce.Location())
		return
	}
	fmt.Fprintf(w, "%serror%s: %s\n", red, reset, err.Error())
}
