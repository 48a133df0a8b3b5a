// Package store persists parsed instances and computed solutions. A
// memory implementation backs tests and single-node runs; Postgres
// backs shared deployments. Selection happens in the API server based
// on DATABASE_URL.
package store

import (
	"context"
	"errors"
	"time"

	"botnav/internal/model"
	"botnav/internal/opt"
)

var ErrNotFound = errors.New("not found")

// Instance is a stored problem instance: the original text plus its
// parsed form.
type Instance struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Raw       string          `json:"-"`
	Model     *model.Instance `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Solution is a stored assignment with its score and, for optimizer
// output, run metrics.
type Solution struct {
	ID         string         `json:"id"`
	InstanceID string         `json:"instanceId"`
	Algorithm  string         `json:"algorithm,omitempty"` // empty for externally supplied solutions
	Score      int            `json:"score"`
	Routes     model.Solution `json:"routes"`
	Metrics    *opt.Metrics   `json:"metrics,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Store is the persistence interface used by the API server.
type Store interface {
	CreateInstance(ctx context.Context, name, raw string, in *model.Instance) (Instance, error)
	GetInstance(ctx context.Context, id string) (Instance, error)
	ListInstances(ctx context.Context) ([]Instance, error)

	CreateSolution(ctx context.Context, sol Solution) (Solution, error)
	GetSolution(ctx context.Context, id string) (Solution, error)
	ListSolutions(ctx context.Context, instanceID string) ([]Solution, error)

	Ping(ctx context.Context) error
	Close()
}
