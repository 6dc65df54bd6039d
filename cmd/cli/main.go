// Package main is the entry point for the quackview CLI binary.
package main

import (
	"os"

	"quackview/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
