package main

import (
	"os"

	"codereview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
