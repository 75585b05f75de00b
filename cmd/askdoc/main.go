// Command askdoc answers questions about uploaded documents.
package main

import (
	"os"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/cli"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
