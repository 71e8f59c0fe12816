package main

import (
	"os"

	"github.com/chargeplan/chargeplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
