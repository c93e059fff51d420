package main

import (
	"os"

	"github.com/convlift/convlift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
