package main

import (
	"os"

	"github.com/chess10kp/buttonlauncher/cmd/buttonlauncher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
