package opt

import (
	"strings"
	"sync"

	"botnav/internal/model"
	"botnav/internal/sim"
)

// evaluator is the objective oracle for the search. It scores routes by
// replaying them through the simulator and applies the horizon policy:
// a route whose bot finishes (last delivery handover included) after the
// horizon end is infeasible, as is a route needing a leg with no path.
// The simulator itself never truncates; the filter lives here.
type evaluator struct {
	inst *model.Instance
	sim  *sim.Simulator

	mu    sync.Mutex
	cache map[string]routeEval
}

type routeEval struct {
	score    int
	feasible bool
}

func newEvaluator(inst *model.Instance) *evaluator {
	return &evaluator{
		inst:  inst,
		sim:   sim.New(inst),
		cache: make(map[string]routeEval),
	}
}

// routeValue returns the summed freshness score of the orders served by
// one route, and whether the route is feasible.
func (e *evaluator) routeValue(bot model.BotID, orders []model.OrderID) (int, bool) {
	key := routeKey(bot, orders)
	e.mu.Lock()
	if ev, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return ev.score, ev.feasible
	}
	e.mu.Unlock()

	ev := e.computeRoute(bot, orders)
	e.mu.Lock()
	e.cache[key] = ev
	e.mu.Unlock()
	return ev.score, ev.feasible
}

func (e *evaluator) computeRoute(bot model.BotID, orders []model.OrderID) routeEval {
	arrivals, finish, err := e.sim.SimulateRoute(bot, orders)
	if err != nil {
		return routeEval{feasible: false}
	}
	if finish > e.inst.Horizon.End {
		return routeEval{feasible: false}
	}
	total := 0
	for id, at := range arrivals {
		total += sim.Score(e.inst.Order(id), at)
	}
	return routeEval{score: total, feasible: true}
}

// total scores a whole solution: served routes plus the unserved score
// of every unassigned order. The second result is false when any route
// is infeasible.
func (e *evaluator) total(sol model.Solution) (int, bool) {
	assigned := sol.Assigned()
	score := 0
	for _, r := range sol.Routes {
		s, ok := e.routeValue(r.Bot, r.Orders)
		if !ok {
			return 0, false
		}
		score += s
	}
	for i := range e.inst.Orders {
		o := &e.inst.Orders[i]
		if !assigned[o.ID] {
			score += o.Freshness.ScoreUnserved()
		}
	}
	return score, true
}

func routeKey(bot model.BotID, orders []model.OrderID) string {
	var b strings.Builder
	b.WriteString(string(bot))
	for _, o := range orders {
		b.WriteByte(0)
		b.WriteString(string(o))
	}
	return b.String()
}

// insertAt returns a new order slice with id inserted at pos.
func insertAt(orders []model.OrderID, id model.OrderID, pos int) []model.OrderID {
	out := make([]model.OrderID, 0, len(orders)+1)
	out = append(out, orders[:pos]...)
	out = append(out, id)
	out = append(out, orders[pos:]...)
	return out
}

// removeAt returns a new order slice without the element at pos.
func removeAt(orders []model.OrderID, pos int) []model.OrderID {
	out := make([]model.OrderID, 0, len(orders)-1)
	out = append(out, orders[:pos]...)
	out = append(out, orders[pos+1:]...)
	return out
}
