package render

import (
	"errors"
	"testing"

	"botnav/internal/model"
	"botnav/internal/routing"
)

func renderInstance(t *testing.T) *model.Instance {
	t.Helper()
	in, err := model.NewInstance(
		[]model.Edge{
			{From: "A", To: "B", Minutes: 3},
			{From: "B", To: "C", Minutes: 2},
			{From: "C", To: "B", Minutes: 2},
		},
		[]model.Bot{{ID: "bot1", Start: "A"}},
		model.TimeHorizon{Start: 480, End: 1080},
		[]model.Order{
			{ID: "o1", Restaurant: "B", Customer: "C", Ready: 480,
				Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 5, Score: 0}}},
			{ID: "o2", Restaurant: "B", Customer: "C", Ready: 490,
				Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 5, Score: 0}}},
		},
	)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return in
}

func TestRenderSingleOrder(t *testing.T) {
	in := renderInstance(t)
	sol := model.Solution{Routes: []model.Route{{Bot: "bot1", Orders: []model.OrderID{"o1"}}}}
	scripts, err := Render(in, sol)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(scripts) != 1 {
		t.Fatalf("scripts = %d, want 1", len(scripts))
	}
	want := []Action{
		{Kind: ActionMove, Node: "B"},
		{Kind: ActionCollect},
		{Kind: ActionMove, Node: "C"},
		{Kind: ActionDeliver},
	}
	got := scripts[0].Actions
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRenderBackToBackOrders(t *testing.T) {
	in := renderInstance(t)
	sol := model.Solution{Routes: []model.Route{{Bot: "bot1", Orders: []model.OrderID{"o1", "o2"}}}}
	scripts, err := Render(in, sol)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// second pickup walks back C -> B
	want := []Action{
		{Kind: ActionMove, Node: "B"},
		{Kind: ActionCollect},
		{Kind: ActionMove, Node: "C"},
		{Kind: ActionDeliver},
		{Kind: ActionMove, Node: "B"},
		{Kind: ActionCollect},
		{Kind: ActionMove, Node: "C"},
		{Kind: ActionDeliver},
	}
	got := scripts[0].Actions
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRenderEmptyRoute(t *testing.T) {
	in := renderInstance(t)
	scripts, err := Render(in, model.Solution{Routes: []model.Route{{Bot: "bot1"}}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(scripts[0].Actions) != 0 {
		t.Fatalf("empty route produced actions: %v", scripts[0].Actions)
	}
}

func TestRenderNoPath(t *testing.T) {
	in, err := model.NewInstance(
		[]model.Edge{
			{From: "A", To: "B", Minutes: 3},
			{From: "C", To: "B", Minutes: 2},
		},
		[]model.Bot{{ID: "bot1", Start: "A"}},
		model.TimeHorizon{Start: 480, End: 1080},
		[]model.Order{{ID: "o1", Restaurant: "C", Customer: "B", Ready: 480,
			Freshness: model.FreshnessFunc{{Start: 0, Score: 100}}}},
	)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	_, err = Render(in, model.Solution{Routes: []model.Route{{Bot: "bot1", Orders: []model.OrderID{"o1"}}}})
	if !errors.Is(err, routing.ErrNoPath) {
		t.Fatalf("got %v, want ErrNoPath", err)
	}
}

func TestRenderRejectsInvalidSolution(t *testing.T) {
	in := renderInstance(t)
	_, err := Render(in, model.Solution{Routes: []model.Route{{Bot: "nope"}}})
	if err == nil {
		t.Fatal("unknown bot: expected error")
	}
}
