package store

import (
	"context"
	"errors"
	"testing"

	"botnav/internal/model"
)

func testModel(t *testing.T) *model.Instance {
	t.Helper()
	in, err := model.NewInstance(
		[]model.Edge{{From: "A", To: "B", Minutes: 3}, {From: "B", To: "C", Minutes: 2}},
		[]model.Bot{{ID: "bot1", Start: "A"}},
		model.TimeHorizon{Start: 480, End: 1080},
		[]model.Order{{ID: "o1", Restaurant: "B", Customer: "C", Ready: 480,
			Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 5, Score: 0}}}},
	)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return in
}

func TestMemoryInstances(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec, err := m.CreateInstance(ctx, "demo", "raw text", testModel(t))
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("no id assigned")
	}
	got, err := m.GetInstance(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.Name != "demo" || got.Raw != "raw text" || got.Model == nil {
		t.Fatalf("got %+v", got)
	}

	if _, err := m.GetInstance(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	list, err := m.ListInstances(ctx)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestMemorySolutions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	inst, err := m.CreateInstance(ctx, "", "", testModel(t))
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}

	routes := model.Solution{Routes: []model.Route{{Bot: "bot1", Orders: []model.OrderID{"o1"}}}}
	sol, err := m.CreateSolution(ctx, Solution{InstanceID: inst.ID, Algorithm: "alns", Score: 100, Routes: routes})
	if err != nil {
		t.Fatalf("CreateSolution: %v", err)
	}
	if sol.ID == "" || sol.CreatedAt.IsZero() {
		t.Fatalf("metadata not filled: %+v", sol)
	}

	got, err := m.GetSolution(ctx, sol.ID)
	if err != nil {
		t.Fatalf("GetSolution: %v", err)
	}
	if got.Score != 100 || got.InstanceID != inst.ID {
		t.Fatalf("got %+v", got)
	}

	if _, err := m.CreateSolution(ctx, Solution{InstanceID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for unknown instance", err)
	}

	second, err := m.CreateSolution(ctx, Solution{InstanceID: inst.ID, Algorithm: "exhaustive", Score: 200, Routes: routes})
	if err != nil {
		t.Fatalf("CreateSolution: %v", err)
	}
	list, err := m.ListSolutions(ctx, inst.ID)
	if err != nil {
		t.Fatalf("ListSolutions: %v", err)
	}
	if len(list) != 2 || list[0].ID != sol.ID || list[1].ID != second.ID {
		t.Fatalf("list order = %+v", list)
	}
}

func TestMemoryPing(t *testing.T) {
	if err := NewMemory().Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
