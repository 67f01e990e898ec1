package main

import (
	"os"

	"github.com/AKakshat1729/AGI-119/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
