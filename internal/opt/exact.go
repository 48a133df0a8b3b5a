package opt

import (
	"context"
	"time"

	"botnav/internal/model"
	"botnav/internal/sim"
)

// solveExact enumerates per-bot sequences depth first, completing one
// bot's route before opening the next so every assignment is visited
// exactly once. An optimistic bound (every remaining order at its best
// band) prunes subtrees that cannot beat the incumbent. The search
// honors the deadline: on expiry it returns the incumbent, flagged as
// truncated. Practical for small instances; the ALNS backend covers the
// rest behind the same contract.
func solveExact(ctx context.Context, inst *model.Instance, p Params) (model.Solution, Metrics, error) {
	start := time.Now()
	ev := newEvaluator(inst)
	m := Metrics{Algorithm: AlgorithmExhaustive, BaselineScore: sim.BaselineScore(inst)}

	budget := p.TimeBudget
	if budget <= 0 {
		budget = defaultTimeBudget
	}
	deadline := time.Now().Add(budget)

	s := &exactSearch{
		inst:     inst,
		ev:       ev,
		ctx:      ctx,
		deadline: deadline,
		best:     model.EmptySolution(inst),
	}
	s.bestScore, _ = ev.total(s.best)
	for i := range inst.Orders {
		o := &inst.Orders[i]
		s.bestBand = append(s.bestBand, maxBandScore(o.Freshness))
		s.unservedScore = append(s.unservedScore, o.Freshness.ScoreUnserved())
	}

	cur := model.EmptySolution(inst)
	s.descend(0, &cur, make([]bool, len(inst.Orders)), 0)

	m.Iterations = s.nodes
	m.BestScore = s.bestScore
	m.Truncated = s.truncated
	m.Elapsed = time.Since(start)
	if p.Progress != nil {
		p.Progress(Event{Type: "done", Iteration: s.nodes, BestScore: s.bestScore})
	}
	return s.best, m, nil
}

type exactSearch struct {
	inst     *model.Instance
	ev       *evaluator
	ctx      context.Context
	deadline time.Time

	bestBand      []int // optimistic per-order score
	unservedScore []int

	best      model.Solution
	bestScore int
	nodes     int
	truncated bool
}

// descend extends bot botIdx's route. servedScore carries the summed
// route values of bots 0..botIdx-1 plus the current (partial) route of
// botIdx.
func (s *exactSearch) descend(botIdx int, cur *model.Solution, used []bool, servedScore int) {
	if s.truncated {
		return
	}
	s.nodes++
	if s.nodes%1024 == 0 {
		select {
		case <-s.ctx.Done():
			s.truncated = true
			return
		default:
		}
		if time.Now().After(s.deadline) {
			s.truncated = true
			return
		}
	}

	// bound: everything still unassigned at its best band
	optimistic := servedScore
	for i, u := range used {
		if !u {
			optimistic += s.bestBand[i]
		}
	}
	if optimistic <= s.bestScore {
		return
	}

	if botIdx == len(cur.Routes) {
		total := servedScore
		for i, u := range used {
			if !u {
				total += s.unservedScore[i]
			}
		}
		if total > s.bestScore {
			s.best = cur.Clone()
			s.bestScore = total
		}
		return
	}

	// close this bot's route
	s.descend(botIdx+1, cur, used, servedScore)

	route := &cur.Routes[botIdx]
	prevVal, _ := s.ev.routeValue(route.Bot, route.Orders)
	for i := range s.inst.Orders {
		if used[i] {
			continue
		}
		id := s.inst.Orders[i].ID
		extended := append(append([]model.OrderID(nil), route.Orders...), id)
		newVal, ok := s.ev.routeValue(route.Bot, extended)
		if !ok {
			continue
		}
		saved := route.Orders
		route.Orders = extended
		used[i] = true
		s.descend(botIdx, cur, used, servedScore+newVal-prevVal)
		used[i] = false
		route.Orders = saved
	}
}

func maxBandScore(f model.FreshnessFunc) int {
	best := f[0].Score
	for _, b := range f[1:] {
		if b.Score > best {
			best = b.Score
		}
	}
	return best
}
