// CLAUDE:SUMMARY vietdanh binary entry point.

// Package main is the entry point for the vietdanh CLI.
package main

import (
	"os"

	"github.com/hazyhaar/vietdanh/cmd/vietdanh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
