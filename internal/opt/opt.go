// Package opt searches the space of order-to-bot assignments and
// per-bot sequences for a maximum total freshness score. Two backends
// share one contract: an adaptive large-neighborhood-search heuristic
// and an exact branch-and-bound enumeration for small instances.
package opt

import (
	"context"
	"fmt"
	"time"

	"botnav/internal/model"
)

const (
	AlgorithmALNS       = "alns"
	AlgorithmExhaustive = "exhaustive"
)

// Params tunes a single optimization run.
type Params struct {
	Algorithm        string        `json:"algorithm,omitempty"`
	Seed             int64         `json:"seed,omitempty"`
	TimeBudget       time.Duration `json:"-"`
	IterationsLimit  int           `json:"maxIterations,omitempty"`
	InitialTemp      float64       `json:"initTemp,omitempty"`
	Cooling          float64       `json:"cooling,omitempty"`
	RemovalWeights   []float64     `json:"removalWeights,omitempty"`   // [random, related]
	InsertionWeights []float64     `json:"insertionWeights,omitempty"` // [greedy, regret2]

	// Progress, when set, receives events during the run: improvements
	// and periodic snapshots. Called from the search goroutine.
	Progress func(Event) `json:"-"`
}

// Event is a progress notification from a running search.
type Event struct {
	Type      string  `json:"type"` // "improved" | "snapshot" | "done"
	Iteration int     `json:"iteration"`
	BestScore int     `json:"bestScore"`
	Temp      float64 `json:"temp,omitempty"`
}

// Metrics summarizes a finished run.
type Metrics struct {
	Algorithm             string           `json:"algorithm"`
	Iterations            int              `json:"iterations"`
	Improvements          int              `json:"improvements"`
	AcceptedWorse         int              `json:"acceptedWorse"`
	RemovalSelects        [2]int           `json:"removalSelects"`
	InsertSelects         [2]int           `json:"insertSelects"`
	BaselineScore         int              `json:"baselineScore"`
	BestScore             int              `json:"bestScore"`
	FinalRemovalWeights   [2]float64       `json:"finalRemovalWeights,omitempty"`
	FinalInsertionWeights [2]float64       `json:"finalInsertionWeights,omitempty"`
	Snapshots             []WeightSnapshot `json:"snapshots,omitempty"`
	Elapsed               time.Duration    `json:"elapsedNs"`
	Truncated             bool             `json:"truncated,omitempty"` // deadline hit before exhaustion (exact only)
}

// WeightSnapshot records adaptive operator weights at an iteration.
type WeightSnapshot struct {
	Iteration int        `json:"iteration"`
	Removal   [2]float64 `json:"removal"`
	Insertion [2]float64 `json:"insertion"`
}

// Optimize runs the selected backend and returns the best solution
// found. It never returns a solution scoring below the all-unserved
// baseline, and never fails just because no improvement exists.
func Optimize(ctx context.Context, inst *model.Instance, p Params) (model.Solution, Metrics, error) {
	switch p.Algorithm {
	case "", AlgorithmALNS:
		return solveALNS(ctx, inst, p)
	case AlgorithmExhaustive:
		return solveExact(ctx, inst, p)
	default:
		return model.Solution{}, Metrics{}, fmt.Errorf("unknown algorithm %q", p.Algorithm)
	}
}
