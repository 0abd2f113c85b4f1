package main

import (
	"os"

	"github.com/focusplan/focusplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
