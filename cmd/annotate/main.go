// Command annotate stores and edits image annotations.
package main

import (
	"os"

	"github.com/kilupskalvis/annotate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
