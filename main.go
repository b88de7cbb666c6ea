package main

import (
	"os"

	"github.com/depthrig/depthrig/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
