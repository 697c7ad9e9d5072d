package main

import (
	"fmt"
	"os"

	"github.com/rmeissner/simple-safe/internal/cli"
)

func main() {
	rootCmd, closeApp := cli.NewRootCmd()
	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
