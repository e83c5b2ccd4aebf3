package main

import (
	"os"

	"github.com/wyfcoding/finsimulator/cmd/finsimctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
