// Command snakec compiles a single JSON fixture (the substitute input
// format for the excluded lexer/parser; see pkg/snakec.DecodeFixture)
// into a NASM translation unit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/snakelang/snakec/internal/cache"
	"github.com/snakelang/snakec/internal/config"
	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/pkg/snakec"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML settings file")
		outPath    = flag.String("o", "", "output path for the rendered NASM (default: stdout)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: snakec [-config FILE] [-o FILE] FIXTURE.json")
		os.Exit(2)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakec: %s\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakec: %s\n", err)
		os.Exit(1)
	}

	var sc snakec.Cache
	if settings.CacheDir != "" {
		if err := os.MkdirAll(settings.CacheDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "snakec: %s\n", err)
			os.Exit(1)
		}
		c, err := cache.Open(settings.CacheDir + "/artifacts.db")
		if err != nil {
			fmt.Fprintf(os.Stderr, "snakec: %s\n", err)
			os.Exit(1)
		}
		defer c.Close()
		sc = c
	}

	compiler := snakec.New(sc)
	result, err := compiler.CompileFixture(data)
	if err != nil {
		diagnostics.Format(os.Stderr, err)
		os.Exit(1)
	}

	if *outPath == "" {
		fmt.Print(result.Assembly)
		return
	}
	if err := os.WriteFile(*outPath, []byte(result.Assembly), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "snakec: %s\n", err)
		os.Exit(1)
	}
}
