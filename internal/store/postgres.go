package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"botnav/internal/codec"
	"botnav/internal/model"
	"botnav/internal/opt"
)

// Postgres persists instances (raw text, re-parsed on load) and
// solutions (JSONB routes and run metrics).
type Postgres struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS instances (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	raw TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS solutions (
	id UUID PRIMARY KEY,
	instance_id UUID NOT NULL REFERENCES instances(id) ON DELETE CASCADE,
	algorithm TEXT NOT NULL DEFAULT '',
	score INT NOT NULL,
	routes JSONB NOT NULL,
	metrics JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS solutions_instance_idx ON solutions (instance_id, created_at);
`

// NewPostgres connects and bootstraps the schema.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) CreateInstance(ctx context.Context, name, raw string, _ *model.Instance) (Instance, error) {
	rec := Instance{ID: uuid.New().String(), Name: name, Raw: raw, CreatedAt: time.Now().UTC()}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO instances (id, name, raw, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Name, rec.Raw, rec.CreatedAt)
	if err != nil {
		return Instance{}, fmt.Errorf("insert instance: %w", err)
	}
	parsed, err := codec.ParseInstance(strings.NewReader(raw))
	if err != nil {
		return Instance{}, err
	}
	rec.Model = parsed
	return rec, nil
}

func (p *Postgres) GetInstance(ctx context.Context, id string) (Instance, error) {
	var rec Instance
	row := p.pool.QueryRow(ctx, `SELECT id, name, raw, created_at FROM instances WHERE id = $1`, id)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Raw, &rec.CreatedAt); err != nil {
		return Instance{}, ErrNotFound
	}
	parsed, err := codec.ParseInstance(strings.NewReader(rec.Raw))
	if err != nil {
		return Instance{}, fmt.Errorf("stored instance %s corrupt: %w", id, err)
	}
	rec.Model = parsed
	return rec, nil
}

func (p *Postgres) ListInstances(ctx context.Context) ([]Instance, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, created_at FROM instances ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Instance
	for rows.Next() {
		var rec Instance
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateSolution(ctx context.Context, sol Solution) (Solution, error) {
	sol.ID = uuid.New().String()
	sol.CreatedAt = time.Now().UTC()
	routes, err := json.Marshal(sol.Routes)
	if err != nil {
		return Solution{}, err
	}
	var metricsJSON []byte
	if sol.Metrics != nil {
		if metricsJSON, err = json.Marshal(sol.Metrics); err != nil {
			return Solution{}, err
		}
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO solutions (id, instance_id, algorithm, score, routes, metrics, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sol.ID, sol.InstanceID, sol.Algorithm, sol.Score, routes, metricsJSON, sol.CreatedAt)
	if err != nil {
		return Solution{}, fmt.Errorf("insert solution: %w", err)
	}
	return sol, nil
}

func (p *Postgres) GetSolution(ctx context.Context, id string) (Solution, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, instance_id, algorithm, score, routes, metrics, created_at FROM solutions WHERE id = $1`, id)
	return scanSolution(row)
}

func (p *Postgres) ListSolutions(ctx context.Context, instanceID string) ([]Solution, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, instance_id, algorithm, score, routes, metrics, created_at
		 FROM solutions WHERE instance_id = $1 ORDER BY created_at`, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (Solution, error) {
	var (
		sol         Solution
		routesJSON  []byte
		metricsJSON []byte
	)
	if err := row.Scan(&sol.ID, &sol.InstanceID, &sol.Algorithm, &sol.Score, &routesJSON, &metricsJSON, &sol.CreatedAt); err != nil {
		return Solution{}, ErrNotFound
	}
	if err := json.Unmarshal(routesJSON, &sol.Routes); err != nil {
		return Solution{}, err
	}
	if len(metricsJSON) > 0 {
		var m opt.Metrics
		if err := json.Unmarshal(metricsJSON, &m); err != nil {
			return Solution{}, err
		}
		sol.Metrics = &m
	}
	return sol, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Close() { p.pool.Close() }
