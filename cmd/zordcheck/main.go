// Command zordcheck verifies a running zord indexer over HTTP.
//
// Usage:
//
//	zordcheck <command> [flags]
//
// Commands:
//
//	smoke      Discover samples and probe every reachable endpoint
//	integrity  Audit token supply against holder balances
//	validate   Validate token listing, detail and balance fields
//	check      Run all of the above in one report
package main

import (
	"fmt"
	"os"

	"github.com/zatoshilabs/zord/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
