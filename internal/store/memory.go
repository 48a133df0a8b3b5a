package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"botnav/internal/model"
)

// Memory is the in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu        sync.Mutex
	instances map[string]Instance
	solutions map[string]Solution
	byInst    map[string][]string // instance id -> solution ids, insertion order
}

func NewMemory() *Memory {
	return &Memory{
		instances: map[string]Instance{},
		solutions: map[string]Solution{},
		byInst:    map[string][]string{},
	}
}

func (m *Memory) CreateInstance(_ context.Context, name, raw string, in *model.Instance) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := Instance{
		ID:        uuid.New().String(),
		Name:      name,
		Raw:       raw,
		Model:     in,
		CreatedAt: time.Now().UTC(),
	}
	m.instances[rec.ID] = rec
	return rec, nil
}

func (m *Memory) GetInstance(_ context.Context, id string) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.instances[id]
	if !ok {
		return Instance{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListInstances(_ context.Context) ([]Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Instance, 0, len(m.instances))
	for _, rec := range m.instances {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateSolution(_ context.Context, sol Solution) (Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[sol.InstanceID]; !ok {
		return Solution{}, ErrNotFound
	}
	sol.ID = uuid.New().String()
	sol.CreatedAt = time.Now().UTC()
	m.solutions[sol.ID] = sol
	m.byInst[sol.InstanceID] = append(m.byInst[sol.InstanceID], sol.ID)
	return sol, nil
}

func (m *Memory) GetSolution(_ context.Context, id string) (Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sol, ok := m.solutions[id]
	if !ok {
		return Solution{}, ErrNotFound
	}
	return sol, nil
}

func (m *Memory) ListSolutions(_ context.Context, instanceID string) ([]Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byInst[instanceID]
	out := make([]Solution, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.solutions[id])
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}
