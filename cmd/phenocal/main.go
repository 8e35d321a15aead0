// main is the entry point for the phenocal CLI.
package main

import (
	"fmt"
	"os"

	"github.com/phenolab/phenocal/cmd"
)

func main() {
	err := cmd.Execute()

	// Flush profiles before deciding the exit code.
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Println("⚠️  Warning: could not stop profiling:", perr)
	}

	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
