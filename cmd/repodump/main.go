package main

import (
	"os"

	"github.com/dshills/repodump/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
