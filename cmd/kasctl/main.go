package main

import (
	"os"

	"github.com/mmynk/kas/cmd/kasctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
