package sim

import "botnav/internal/model"

// Score maps one order's simulated arrival through its freshness
// function. Unserved evaluates at infinite lateness, which lands in the
// function's final band.
func Score(o *model.Order, arrival model.Clock) int {
	if arrival == Unserved {
		return o.Freshness.ScoreUnserved()
	}
	return o.Freshness.ScoreAt(int(arrival - o.Ready))
}

// Evaluation is a scored simulation: per-order arrivals plus the total
// freshness score. The total is additive per order with no cross terms.
type Evaluation struct {
	Total    int                           `json:"total"`
	Scores   map[model.OrderID]int         `json:"scores"`
	Arrivals map[model.OrderID]model.Clock `json:"arrivals"`
	Finish   map[model.BotID]model.Clock   `json:"finish"`
}

// Evaluate simulates and scores a solution.
func (s *Simulator) Evaluate(sol model.Solution) (Evaluation, error) {
	res, err := s.Simulate(sol)
	if err != nil {
		return Evaluation{}, err
	}
	ev := Evaluation{
		Scores:   make(map[model.OrderID]int, len(s.inst.Orders)),
		Arrivals: res.Arrivals,
		Finish:   res.Finish,
	}
	for i := range s.inst.Orders {
		o := &s.inst.Orders[i]
		sc := Score(o, res.Arrivals[o.ID])
		ev.Scores[o.ID] = sc
		ev.Total += sc
	}
	return ev, nil
}

// BaselineScore is the total of the all-unserved solution, the floor
// any optimizer result must meet.
func BaselineScore(in *model.Instance) int {
	total := 0
	for i := range in.Orders {
		total += in.Orders[i].Freshness.ScoreUnserved()
	}
	return total
}
