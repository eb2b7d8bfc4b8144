// SPDX-License-Identifier: MIT

// Command wfpad synthesizes padding machines for website-fingerprinting
// defenses. Run "wfpad --help" for the command list.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/wfpad/internal/cli"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and maps the result to an exit code.
func run(args []string, outW, errW io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Run(ctx, args, outW, errW)
	if err != nil {
		fmt.Fprintf(errW, "wfpad: %v\n", err)
	}

	return cli.ExitCode(err)
}
