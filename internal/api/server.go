package api

import (
	"context"

	"golang.org/x/time/rate"

	"botnav/internal/config"
	"botnav/internal/store"
)

// Server holds the API dependencies.
type Server struct {
	Store  store.Store
	Broker EventBroker
	Cfg    *config.Config

	// optimize is the only expensive endpoint; everything else is
	// lookups
	optLimit *rate.Limiter
}

// NewServer wires the store and broker from configuration: Postgres
// when DATABASE_URL is set, otherwise in-memory; Redis broker when
// REDIS_URL is set, otherwise in-process fan-out.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	var s store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		s = pg
	} else {
		s = store.NewMemory()
	}
	var broker EventBroker
	if cfg.Redis.URL != "" {
		rb, err := NewRedisBroker(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		broker = rb
	} else {
		broker = NewBroker()
	}
	perSec := cfg.Optimizer.OptimizePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &Server{
		Store:    s,
		Broker:   broker,
		Cfg:      cfg,
		optLimit: rate.NewLimiter(rate.Limit(perSec), 2),
	}, nil
}
