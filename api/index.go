package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/arnavshah/w2w/pkg/app"
	"github.com/arnavshah/w2w/pkg/config"
	"github.com/gin-gonic/gin"
)

var r http.Handler

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("could not start: %v", err)
	}
	r = a.Router
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
