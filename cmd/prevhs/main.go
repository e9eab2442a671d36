package main

import (
	"os"

	"github.com/hesreallyhim/pre-vhs/internal/cmd/root"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
