package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/w2w/pkg/auth"
	"github.com/arnavshah/w2w/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <key name>")
		os.Exit(1)
	}

	name := os.Args[1]
	if cfg.APIMasterSecret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in environment or .env")
		os.Exit(1)
	}

	apiKey := auth.New(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(name)
	fmt.Printf("Generated Key for %s:\n%s\n", name, apiKey)
}
