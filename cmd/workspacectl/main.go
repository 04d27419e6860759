package main

import (
	"os"

	"github.com/likhit-sai/CogniFlow/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
