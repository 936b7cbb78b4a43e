// Command snakec-server listens for gRPC Compile requests and runs
// them through the same pipeline cmd/snakec uses, backed by the same
// on-disk compilation cache.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/snakelang/snakec/internal/cache"
	"github.com/snakelang/snakec/internal/config"
	"github.com/snakelang/snakec/internal/rpcserver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakec-server: %s\n", err)
		os.Exit(1)
	}

	var c *cache.Cache
	if settings.CacheDir != "" {
		if err := os.MkdirAll(settings.CacheDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "snakec-server: %s\n", err)
			os.Exit(1)
		}
		c, err = cache.Open(settings.CacheDir + "/artifacts.db")
		if err != nil {
			fmt.Fprintf(os.Stderr, "snakec-server: %s\n", err)
			os.Exit(1)
		}
		defer c.Close()
	}

	lis, err := net.Listen("tcp", settings.ServerAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakec-server: %s\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "snakec-server: listening on %s\n", settings.ServerAddr)
	var rc rpcserver.Cache
	if c != nil {
		rc = c
	}
	if err := rpcserver.Serve(lis, rc); err != nil {
		fmt.Fprintf(os.Stderr, "snakec-server: %s\n", err)
		os.Exit(1)
	}
}
