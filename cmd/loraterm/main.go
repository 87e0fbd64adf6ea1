package main

import (
	"os"

	"loraterm/internal/cli"
)

func main() {
	os.Exit(cli.Run("loraterm", os.Args[1:]))
}
