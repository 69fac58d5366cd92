package main

import (
	"os"

	"synapd/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
