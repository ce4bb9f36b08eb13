package main

import (
	"fmt"
	"os"

	"github.com/TechXTT/pgcursor/pkg/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pgcursor:", err)
		os.Exit(1)
	}
}
