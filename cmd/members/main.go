// Command members is a terminal member book backed by SQLite.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/members/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
