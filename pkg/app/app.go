// Package app assembles the configured storage, store and router shared by
// the server and serverless entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/arnavshah/w2w/pkg/auth"
	"github.com/arnavshah/w2w/pkg/config"
	"github.com/arnavshah/w2w/pkg/database"
	"github.com/arnavshah/w2w/pkg/handlers"
	"github.com/arnavshah/w2w/pkg/metrics"
	"github.com/arnavshah/w2w/pkg/storage"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App is a fully wired w2w service
type App struct {
	Config  config.Config
	DB      *gorm.DB
	Store   *store.Store
	Handler *handlers.Handler
	Router  *gin.Engine

	closers []func() error
}

// New opens the database and state slot selected by cfg and builds the router.
// Operators, keys and usage need the database; when it cannot be opened and
// the state lives elsewhere the service starts without them.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.APIMasterSecret == "" {
		return nil, errors.New("API_MASTER_SECRET must be set")
	}

	a := &App{Config: cfg}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		if cfg.StateBackend == config.BackendDatabase {
			return nil, err
		}
		log.Printf("database unavailable, continuing without operators and usage: %v", err)
	} else {
		a.DB = db
		created, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.Printf("could not create default operator: %v", err)
		} else if created {
			log.Printf("created default operator %q", cfg.AdminUsername)
		}
	}

	slot, err := a.openSlot(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	st, err := store.Open(ctx, slot, nil)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = st

	a.Handler = &handlers.Handler{
		DB:      a.DB,
		Store:   st,
		Auth:    auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Metrics: metrics.New(),
	}
	a.Router = handlers.NewRouter(a.Handler)
	return a, nil
}

func (a *App) openSlot(cfg config.Config) (storage.Slot, error) {
	switch cfg.StateBackend {
	case config.BackendDatabase:
		return database.NewSlot(a.DB), nil
	case config.BackendBolt:
		b, err := storage.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, b.Close)
		return b, nil
	case config.BackendMemory:
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

// Close releases the bolt file and database handle
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
