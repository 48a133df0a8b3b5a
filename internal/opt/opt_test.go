package opt

import (
	"context"
	"testing"
	"time"

	"botnav/internal/model"
	"botnav/internal/sim"
)

func freshBands() model.FreshnessFunc {
	return model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 15, Score: 40}, {Start: 60, Score: 0}}
}

// twoBotInstance has enough slack that every order can reach its best
// band along some assignment.
func twoBotInstance(t *testing.T) *model.Instance {
	t.Helper()
	edges := []model.Edge{
		{From: "depot1", To: "r1", Minutes: 2},
		{From: "depot2", To: "r2", Minutes: 2},
		{From: "r1", To: "c1", Minutes: 3},
		{From: "r2", To: "c2", Minutes: 3},
		{From: "c1", To: "r1", Minutes: 3},
		{From: "c2", To: "r2", Minutes: 3},
		{From: "c1", To: "r2", Minutes: 4},
		{From: "c2", To: "r1", Minutes: 4},
		{From: "depot1", To: "r2", Minutes: 6},
		{From: "depot2", To: "r1", Minutes: 6},
	}
	bots := []model.Bot{{ID: "b1", Start: "depot1"}, {ID: "b2", Start: "depot2"}}
	orders := []model.Order{
		{ID: "o1", Restaurant: "r1", Customer: "c1", Ready: 480, Freshness: freshBands()},
		{ID: "o2", Restaurant: "r2", Customer: "c2", Ready: 480, Freshness: freshBands()},
		{ID: "o3", Restaurant: "r1", Customer: "c1", Ready: 490, Freshness: freshBands()},
	}
	in, err := model.NewInstance(edges, bots, model.TimeHorizon{Start: 480, End: 720}, orders)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return in
}

func TestOptimizeALNSBeatsBaseline(t *testing.T) {
	in := twoBotInstance(t)
	sol, m, err := Optimize(context.Background(), in, Params{
		Algorithm:  AlgorithmALNS,
		Seed:       1,
		TimeBudget: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if err := sol.Validate(in); err != nil {
		t.Fatalf("returned solution invalid: %v", err)
	}
	base := sim.BaselineScore(in)
	if m.BestScore < base {
		t.Fatalf("best %d below baseline %d", m.BestScore, base)
	}
	// each order individually fits its 100-point band, so search must
	// find a strict improvement
	if m.BestScore <= base {
		t.Fatalf("best %d did not improve on baseline %d", m.BestScore, base)
	}
	ev, err := sim.New(in).Evaluate(sol)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Total != m.BestScore {
		t.Fatalf("reported best %d != re-evaluated score %d", m.BestScore, ev.Total)
	}
}

func TestOptimizeALNSDeterministicWithSeed(t *testing.T) {
	in := twoBotInstance(t)
	p := Params{Algorithm: AlgorithmALNS, Seed: 42, IterationsLimit: 300, TimeBudget: time.Second}
	_, m1, err := Optimize(context.Background(), in, p)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	_, m2, err := Optimize(context.Background(), in, p)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if m1.BestScore != m2.BestScore {
		t.Fatalf("same seed gave %d then %d", m1.BestScore, m2.BestScore)
	}
}

func TestOptimizeExactFindsOptimum(t *testing.T) {
	// one bot, two orders: serving both fresh is reachable and is the
	// unique maximum of 200
	edges := []model.Edge{
		{From: "depot", To: "r1", Minutes: 1},
		{From: "r1", To: "c1", Minutes: 2},
		{From: "c1", To: "r2", Minutes: 1},
		{From: "r2", To: "c2", Minutes: 2},
		{From: "c2", To: "r1", Minutes: 20},
	}
	orders := []model.Order{
		{ID: "o1", Restaurant: "r1", Customer: "c1", Ready: 480,
			Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 15, Score: 0}}},
		{ID: "o2", Restaurant: "r2", Customer: "c2", Ready: 480,
			Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 30, Score: 0}}},
	}
	in, err := model.NewInstance(edges, []model.Bot{{ID: "b1", Start: "depot"}},
		model.TimeHorizon{Start: 480, End: 600}, orders)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	sol, m, err := Optimize(context.Background(), in, Params{
		Algorithm:  AlgorithmExhaustive,
		TimeBudget: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if m.Truncated {
		t.Fatal("tiny instance should exhaust the search tree")
	}
	if m.BestScore != 200 {
		t.Fatalf("best = %d, want 200", m.BestScore)
	}
	ev, err := sim.New(in).Evaluate(sol)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Total != 200 {
		t.Fatalf("re-evaluated = %d, want 200", ev.Total)
	}
}

// A route whose finish would overrun the horizon is infeasible for the
// optimizer even though the simulator would happily replay it.
func TestOptimizeRespectsHorizon(t *testing.T) {
	edges := []model.Edge{
		{From: "depot", To: "r", Minutes: 10},
		{From: "r", To: "c", Minutes: 10},
	}
	orders := []model.Order{{
		ID: "o1", Restaurant: "r", Customer: "c", Ready: 480,
		Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 60, Score: 5}},
	}}
	// serving takes until 480+10+1+10+5 = 506; a horizon ending at 505
	// forbids it, one ending at 506 allows it
	for _, tc := range []struct {
		end       model.Clock
		wantScore int
	}{
		{505, 5},   // unserved: final band
		{506, 100}, // exactly fits
	} {
		in, err := model.NewInstance(edges, []model.Bot{{ID: "b1", Start: "depot"}},
			model.TimeHorizon{Start: 480, End: tc.end}, orders)
		if err != nil {
			t.Fatalf("NewInstance: %v", err)
		}
		_, m, err := Optimize(context.Background(), in, Params{
			Algorithm:  AlgorithmExhaustive,
			TimeBudget: time.Second,
		})
		if err != nil {
			t.Fatalf("Optimize: %v", err)
		}
		if m.BestScore != tc.wantScore {
			t.Fatalf("horizon end %s: best = %d, want %d", tc.end, m.BestScore, tc.wantScore)
		}
	}
}

func TestOptimizeUnknownAlgorithm(t *testing.T) {
	in := twoBotInstance(t)
	if _, _, err := Optimize(context.Background(), in, Params{Algorithm: "simplex"}); err == nil {
		t.Fatal("unknown algorithm: expected error")
	}
}

func TestOptimizeProgressEvents(t *testing.T) {
	in := twoBotInstance(t)
	var done bool
	_, _, err := Optimize(context.Background(), in, Params{
		Algorithm:  AlgorithmALNS,
		Seed:       7,
		TimeBudget: 100 * time.Millisecond,
		Progress: func(e Event) {
			if e.Type == "done" {
				done = true
			}
		},
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !done {
		t.Fatal("no done event emitted")
	}
}

func TestEvaluatorRouteFeasibility(t *testing.T) {
	in := twoBotInstance(t)
	ev := newEvaluator(in)
	val, feasible := ev.routeValue("b1", []model.OrderID{"o1"})
	if !feasible {
		t.Fatal("single-order route should be feasible")
	}
	if val != 100 {
		t.Fatalf("route value = %d, want 100", val)
	}
	total, ok := ev.total(model.EmptySolution(in))
	if !ok {
		t.Fatal("empty solution must be feasible")
	}
	if total != sim.BaselineScore(in) {
		t.Fatalf("empty total %d != baseline %d", total, sim.BaselineScore(in))
	}
}
