package main

import (
	"os"

	"github.com/leadline-hq/leadline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
