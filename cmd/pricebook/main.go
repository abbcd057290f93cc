package main

import (
	"os"

	"github.com/amsfield/pricebook/cmd/pricebook/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
