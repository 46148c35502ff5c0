package main

import (
	"context"
	"log"

	"github.com/arnavshah/w2w/pkg/app"
	"github.com/arnavshah/w2w/pkg/config"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load .env if it exists
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("could not start: %v", err)
	}
	defer a.Close()

	log.Printf("Server starting on port %s (state backend: %s)", cfg.Port, cfg.StateBackend)
	if err := a.Router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
