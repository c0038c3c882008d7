package main

import (
	"os"

	"finanze/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
