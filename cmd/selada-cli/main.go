package main

import (
	"os"

	"selada/cmd/selada-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
