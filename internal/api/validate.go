package api

import (
	"fmt"

	"botnav/internal/opt"
)

func validateOptimizeRequest(req *OptimizeRequest) error {
	if req.InstanceID == "" {
		return fmt.Errorf("instanceId is required")
	}
	switch req.Algorithm {
	case "", opt.AlgorithmALNS, opt.AlgorithmExhaustive:
	default:
		return fmt.Errorf("unknown algorithm %q", req.Algorithm)
	}
	if req.TimeBudgetMs < 0 {
		return fmt.Errorf("timeBudgetMs must be non-negative")
	}
	if req.MaxIterations < 0 {
		return fmt.Errorf("maxIterations must be non-negative")
	}
	if req.Cooling != 0 && (req.Cooling <= 0 || req.Cooling >= 1) {
		return fmt.Errorf("cooling must be in (0, 1)")
	}
	if req.InitTemp < 0 {
		return fmt.Errorf("initTemp must be non-negative")
	}
	if n := len(req.RemovalWeights); n != 0 && n != 2 {
		return fmt.Errorf("removalWeights must have exactly 2 entries")
	}
	if n := len(req.InsertionWeights); n != 0 && n != 2 {
		return fmt.Errorf("insertionWeights must have exactly 2 entries")
	}
	for _, ws := range [][]float64{req.RemovalWeights, req.InsertionWeights} {
		for _, v := range ws {
			if v < 0 {
				return fmt.Errorf("operator weights must be non-negative")
			}
		}
	}
	return nil
}
