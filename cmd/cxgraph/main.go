// Package main is the entry point for the cxgraph CLI tool.
package main

import (
	"github.com/NicolasVautrin/cxgraph/internal/cmd"
)

func main() {
	cmd.Execute()
}
