// Package main is the offline companion CLI of the tajwid API.
//
// Usage:
//
//	tajwidctl [flags] <command> [args]
//
// Commands:
//
//	extract  - Print the MFCC matrix of a WAV file as JSON
//	predict  - Run the full prediction pipeline on a WAV file
package main

import (
	"fmt"
	"os"

	"github.com/Brownie44l1/tajwid-api/cmd/tajwidctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
