// Copyright 2025 ao Authors

package main

import (
	"fmt"
	"os"

	"github.com/gmagogsfm/ao/internal/cli"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cli.Version = Version
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
