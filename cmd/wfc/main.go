// Command wfc generates tile maps with simple tiled wave function collapse.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tilewave/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
