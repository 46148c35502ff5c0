package main

import (
	"os"

	"github.com/arnavshah/w2w/internal/cli"
	"github.com/arnavshah/w2w/pkg/config"
)

var version = "dev"

func main() {
	config.LoadDotEnv()
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
