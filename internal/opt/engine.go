package opt

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"botnav/internal/model"
	"botnav/internal/sim"
)

const defaultTimeBudget = 3 * time.Second

// solveALNS runs an adaptive large-neighborhood search: greedy seed,
// roulette-selected removal and reinsertion operators with adaptive
// weights, local-search polishing and simulated-annealing acceptance.
// Every intermediate solution is feasible, so the incumbent is always a
// valid answer when the budget runs out.
func solveALNS(ctx context.Context, inst *model.Instance, p Params) (model.Solution, Metrics, error) {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	ev := newEvaluator(inst)
	start := time.Now()

	m := Metrics{Algorithm: AlgorithmALNS, BaselineScore: sim.BaselineScore(inst)}

	curr := greedySeed(inst, ev)
	currScore, _ := ev.total(curr)
	best := curr.Clone()
	bestScore := currScore
	m.BestScore = bestScore

	if len(inst.Orders) == 0 || len(inst.Bots) == 0 {
		m.Elapsed = time.Since(start)
		return best, m, nil
	}

	remW := [2]float64{1, 1} // random, related
	insW := [2]float64{1, 1} // greedy, regret2
	if len(p.RemovalWeights) == 2 {
		remW = [2]float64{p.RemovalWeights[0], p.RemovalWeights[1]}
	}
	if len(p.InsertionWeights) == 2 {
		insW = [2]float64{p.InsertionWeights[0], p.InsertionWeights[1]}
	}
	temp := 1.0
	if p.InitialTemp > 0 {
		temp = p.InitialTemp
	}
	cool := 0.995
	if p.Cooling > 0 && p.Cooling < 1 {
		cool = p.Cooling
	}
	budget := p.TimeBudget
	if budget <= 0 {
		budget = defaultTimeBudget
	}
	deadline := time.Now().Add(budget)
	const snapshotEvery = 50

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			m.Elapsed = time.Since(start)
			return best, m, nil
		default:
		}
		m.Iterations++
		if p.IterationsLimit > 0 && m.Iterations >= p.IterationsLimit {
			break
		}

		k := 1 + rng.Intn(3)
		op := selectOp(remW, rng)
		m.RemovalSelects[op]++
		ip := selectOp(insW, rng)
		m.InsertSelects[ip]++

		var removed []model.OrderID
		switch op {
		case 0:
			removed = randomRemoval(curr, k, rng)
		case 1:
			removed = relatedRemoval(inst, ev, curr, k, rng)
		}
		cand := withoutOrders(curr, removed)
		switch ip {
		case 0:
			cand = greedyInsert(inst, ev, cand, removed)
		case 1:
			cand = regretInsert(inst, ev, cand, removed)
		}
		cand = relocateImprove(ev, cand)
		cand = swapImprove(ev, cand)
		cand = twoOptImprove(ev, cand)
		candScore, ok := ev.total(cand)
		if !ok {
			// operators preserve feasibility; treat anything else as a
			// rejected move
			temp *= cool
			continue
		}

		if candScore > bestScore {
			best = cand.Clone()
			bestScore = candScore
			curr = cand
			currScore = candScore
			remW[op] += 0.1
			insW[ip] += 0.1
			m.Improvements++
			m.BestScore = bestScore
			if p.Progress != nil {
				p.Progress(Event{Type: "improved", Iteration: m.Iterations, BestScore: bestScore, Temp: temp})
			}
		} else if delta := float64(currScore - candScore); delta <= 0 || rng.Float64() < math.Exp(-delta/(temp+1e-9)) {
			curr = cand
			currScore = candScore
			remW[op] += 0.01
			insW[ip] += 0.01
			m.AcceptedWorse++
		} else {
			remW[op] = math.Max(0.01, remW[op]*0.999)
			insW[ip] = math.Max(0.01, insW[ip]*0.999)
		}
		temp *= cool

		if m.Iterations%snapshotEvery == 0 {
			m.Snapshots = append(m.Snapshots, WeightSnapshot{Iteration: m.Iterations, Removal: remW, Insertion: insW})
			if p.Progress != nil {
				p.Progress(Event{Type: "snapshot", Iteration: m.Iterations, BestScore: bestScore, Temp: temp})
			}
		}
	}

	m.FinalRemovalWeights = remW
	m.FinalInsertionWeights = insW
	m.Elapsed = time.Since(start)
	if p.Progress != nil {
		p.Progress(Event{Type: "done", Iteration: m.Iterations, BestScore: bestScore})
	}
	return best, m, nil
}

// greedySeed builds the initial solution by repeatedly applying the
// single insertion with the highest positive marginal score gain. It
// starts from all-unserved, so its score never drops below baseline.
func greedySeed(inst *model.Instance, ev *evaluator) model.Solution {
	sol := model.EmptySolution(inst)
	for {
		assigned := sol.Assigned()
		type move struct {
			order model.OrderID
			route int
			pos   int
			gain  int
		}
		bestMove := move{gain: 0}
		found := false
		for i := range inst.Orders {
			o := &inst.Orders[i]
			if assigned[o.ID] {
				continue
			}
			unserved := o.Freshness.ScoreUnserved()
			for ri, r := range sol.Routes {
				oldVal, ok := ev.routeValue(r.Bot, r.Orders)
				if !ok {
					continue
				}
				for pos := 0; pos <= len(r.Orders); pos++ {
					newVal, ok := ev.routeValue(r.Bot, insertAt(r.Orders, o.ID, pos))
					if !ok {
						continue
					}
					gain := newVal - oldVal - unserved
					if gain > bestMove.gain {
						bestMove = move{order: o.ID, route: ri, pos: pos, gain: gain}
						found = true
					}
				}
			}
		}
		if !found {
			return sol
		}
		next := sol.Clone()
		r := &next.Routes[bestMove.route]
		r.Orders = insertAt(r.Orders, bestMove.order, bestMove.pos)
		sol = next
	}
}

// randomRemoval picks up to k currently assigned orders uniformly.
func randomRemoval(sol model.Solution, k int, rng *rand.Rand) []model.OrderID {
	var all []model.OrderID
	for _, r := range sol.Routes {
		all = append(all, r.Orders...)
	}
	if len(all) == 0 {
		return nil
	}
	var removed []model.OrderID
	for i := 0; i < k && len(all) > 0; i++ {
		j := rng.Intn(len(all))
		removed = append(removed, all[j])
		all = append(all[:j], all[j+1:]...)
	}
	return removed
}

// relatedRemoval removes a random seed order plus the orders most
// related to it, where relatedness mixes ready-time proximity and
// restaurant-to-restaurant transit time.
func relatedRemoval(inst *model.Instance, ev *evaluator, sol model.Solution, k int, rng *rand.Rand) []model.OrderID {
	var assigned []model.OrderID
	for _, r := range sol.Routes {
		assigned = append(assigned, r.Orders...)
	}
	if len(assigned) == 0 {
		return nil
	}
	seedID := assigned[rng.Intn(len(assigned))]
	seedOrder := inst.Order(seedID)

	type scored struct {
		id  model.OrderID
		rel int
	}
	var rel []scored
	for _, id := range assigned {
		if id == seedID {
			continue
		}
		o := inst.Order(id)
		r := abs(int(o.Ready - seedOrder.Ready))
		if d, err := ev.sim.Resolver().Cost(seedOrder.Restaurant, o.Restaurant); err == nil {
			r += d
		} else {
			r += 1 << 16
		}
		rel = append(rel, scored{id: id, rel: r})
	}
	for i := 0; i < len(rel); i++ {
		for j := i + 1; j < len(rel); j++ {
			if rel[j].rel < rel[i].rel {
				rel[i], rel[j] = rel[j], rel[i]
			}
		}
	}
	removed := []model.OrderID{seedID}
	for i := 0; i < len(rel) && len(removed) < k; i++ {
		removed = append(removed, rel[i].id)
	}
	return removed
}

// withoutOrders returns a copy of the solution with the given orders
// unassigned.
func withoutOrders(sol model.Solution, removed []model.OrderID) model.Solution {
	if len(removed) == 0 {
		return sol
	}
	rm := make(map[model.OrderID]bool, len(removed))
	for _, id := range removed {
		rm[id] = true
	}
	out := model.Solution{Routes: make([]model.Route, len(sol.Routes))}
	for i, r := range sol.Routes {
		out.Routes[i].Bot = r.Bot
		for _, id := range r.Orders {
			if !rm[id] {
				out.Routes[i].Orders = append(out.Routes[i].Orders, id)
			}
		}
	}
	return out
}

// greedyInsert reinserts removed orders one at a time at the globally
// cheapest feasible position. Orders with no feasible position stay
// unserved; the score function absorbs them.
func greedyInsert(inst *model.Instance, ev *evaluator, sol model.Solution, removed []model.OrderID) model.Solution {
	pending := append([]model.OrderID(nil), removed...)
	for len(pending) > 0 {
		type move struct {
			idx, route, pos, gain int
		}
		bestMove := move{idx: -1, gain: math.MinInt}
		for pi, id := range pending {
			unserved := inst.Order(id).Freshness.ScoreUnserved()
			for ri, r := range sol.Routes {
				oldVal, ok := ev.routeValue(r.Bot, r.Orders)
				if !ok {
					continue
				}
				for pos := 0; pos <= len(r.Orders); pos++ {
					newVal, ok := ev.routeValue(r.Bot, insertAt(r.Orders, id, pos))
					if !ok {
						continue
					}
					gain := newVal - oldVal - unserved
					if gain > bestMove.gain {
						bestMove = move{idx: pi, route: ri, pos: pos, gain: gain}
					}
				}
			}
		}
		if bestMove.idx < 0 {
			break // nothing fits anywhere
		}
		id := pending[bestMove.idx]
		sol = sol.Clone()
		r := &sol.Routes[bestMove.route]
		r.Orders = insertAt(r.Orders, id, bestMove.pos)
		pending = append(pending[:bestMove.idx], pending[bestMove.idx+1:]...)
	}
	return sol
}

// regretInsert reinserts removed orders by regret-2: the order whose
// best position beats its second-best by the most goes first. Position
// scans per order are independent and run concurrently.
func regretInsert(inst *model.Instance, ev *evaluator, sol model.Solution, removed []model.OrderID) model.Solution {
	pending := append([]model.OrderID(nil), removed...)
	for len(pending) > 0 {
		type candidate struct {
			feasible        bool
			route, pos      int
			bestGain, next2 int
		}
		cands := make([]candidate, len(pending))
		var g errgroup.Group
		for pi, id := range pending {
			pi, id := pi, id
			g.Go(func() error {
				unserved := inst.Order(id).Freshness.ScoreUnserved()
				c := candidate{bestGain: math.MinInt, next2: math.MinInt}
				for ri, r := range sol.Routes {
					oldVal, ok := ev.routeValue(r.Bot, r.Orders)
					if !ok {
						continue
					}
					for pos := 0; pos <= len(r.Orders); pos++ {
						newVal, ok := ev.routeValue(r.Bot, insertAt(r.Orders, id, pos))
						if !ok {
							continue
						}
						gain := newVal - oldVal - unserved
						switch {
						case gain > c.bestGain:
							c.next2 = c.bestGain
							c.bestGain = gain
							c.route = ri
							c.pos = pos
							c.feasible = true
						case gain > c.next2:
							c.next2 = gain
						}
					}
				}
				cands[pi] = c
				return nil
			})
		}
		_ = g.Wait()

		bestIdx, bestRegret := -1, math.MinInt
		for pi, c := range cands {
			if !c.feasible {
				continue
			}
			regret := 0
			if c.next2 > math.MinInt {
				regret = c.bestGain - c.next2
			}
			if bestIdx < 0 || regret > bestRegret {
				bestIdx = pi
				bestRegret = regret
			}
		}
		if bestIdx < 0 {
			break
		}
		c := cands[bestIdx]
		id := pending[bestIdx]
		sol = sol.Clone()
		r := &sol.Routes[c.route]
		r.Orders = insertAt(r.Orders, id, c.pos)
		pending = append(pending[:bestIdx], pending[bestIdx+1:]...)
	}
	return sol
}

func selectOp(weights [2]float64, rng *rand.Rand) int {
	sum := weights[0] + weights[1]
	if sum <= 0 {
		return 0
	}
	if rng.Float64()*sum <= weights[0] {
		return 0
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
