package main

import (
	"os"

	"github.com/couchcryptid/utility-hub/cmd/utilhub/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
