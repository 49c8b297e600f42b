package main

import (
	"fmt"
	"os"

	"github.com/example/kita-dienstplan/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.Env{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fehler: %v\n", err)
		os.Exit(1)
	}
}
