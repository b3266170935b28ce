// cmd/ccapkg/main.go
package main

import (
	"fmt"
	"os"

	"github.com/wysaid/ccapkg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
