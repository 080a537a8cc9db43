package main

import (
	"os"

	"github.com/iwvelando/ltv-leverage/cmd/ltv-leverage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
