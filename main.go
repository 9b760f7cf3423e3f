// Package main is the entry point for the meshtest CLI.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/meshtest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
