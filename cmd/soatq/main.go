// Command soatq quotes and inspects the loaded SOAT tariffs from a terminal.
package main

import (
	"os"

	"github.com/soat-quoter/cmd/soatq/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
