// Command curveball generates curved brush geometry for Quake 3 style map
// editors and writes it as a .map file.
//
// Usage:
//
//	curveball <command> [flags]
//
// Run "curveball help" for the list of commands.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "curveball:", err)
		}
		os.Exit(1)
	}
}
