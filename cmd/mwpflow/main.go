// Command mwpflow is the CLI front-end for the polynomial growth-bound
// analyzer (spec §6): it parses one or more source files with
// mwplang.ReferenceParser, desugars unary operators, runs
// internal/analyzer over every function, and prints or persists the
// resulting mwpresult.Result set.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/mwpflow/cmd/mwpflow/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
