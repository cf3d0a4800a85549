// Command aggfix lists, dumps, and loads aggregation benchmark fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/aggfix/aggfix/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
