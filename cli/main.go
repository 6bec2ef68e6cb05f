package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/rosx-labs/perp-deployer/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprintf("Error: %v", err))
		os.Exit(1)
	}
}
