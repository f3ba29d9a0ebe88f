// Package main provides the entry point for the objsearch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/objsearch/cmd/objsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
