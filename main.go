package main

import (
	"os"

	"github.com/blocklang/designer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
