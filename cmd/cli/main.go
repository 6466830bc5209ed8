// Package main is the entry point for the elbyte CLI.
package main

import (
	"os"

	"elbyte/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
