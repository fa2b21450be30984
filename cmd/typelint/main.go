package main

import (
	"os"

	"typelint/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
