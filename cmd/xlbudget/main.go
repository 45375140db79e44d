// Command xlbudget rebuilds subtotal formulas in budget ledger workbooks.
package main

import (
	"os"

	"github.com/javajack/xlbudget/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
