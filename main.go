package main

import (
	"os"

	"github.com/clarityhealth/medrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
