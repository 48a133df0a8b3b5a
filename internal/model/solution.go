package model

// Route is one bot's ordered visiting sequence.
type Route struct {
	Bot    BotID     `json:"bot"`
	Orders []OrderID `json:"orders"`
}

// Solution assigns each order to at most one bot and fixes the visiting
// order per bot. Solutions are treated as immutable by consumers;
// search transformations work on clones.
type Solution struct {
	Routes []Route `json:"routes"`
}

// EmptySolution returns the all-unserved solution: one empty route per
// bot, in instance order.
func EmptySolution(in *Instance) Solution {
	routes := make([]Route, len(in.Bots))
	for i, b := range in.Bots {
		routes[i] = Route{Bot: b.ID}
	}
	return Solution{Routes: routes}
}

// Clone returns a deep copy safe to mutate independently.
func (s Solution) Clone() Solution {
	out := Solution{Routes: make([]Route, len(s.Routes))}
	for i, r := range s.Routes {
		out.Routes[i] = Route{Bot: r.Bot, Orders: append([]OrderID(nil), r.Orders...)}
	}
	return out
}

// Assigned returns the set of orders present in any route.
func (s Solution) Assigned() map[OrderID]bool {
	m := make(map[OrderID]bool)
	for _, r := range s.Routes {
		for _, o := range r.Orders {
			m[o] = true
		}
	}
	return m
}

// Validate checks the solution against an instance: known bots, known
// orders, no bot repeated, no order assigned twice.
func (s Solution) Validate(in *Instance) error {
	seenBot := make(map[BotID]bool, len(s.Routes))
	seenOrder := make(map[OrderID]bool)
	for _, r := range s.Routes {
		if in.Bot(r.Bot) == nil {
			return &ValidationError{Field: "solution", Reason: "unknown bot " + string(r.Bot)}
		}
		if seenBot[r.Bot] {
			return &ValidationError{Field: "solution", Reason: "bot " + string(r.Bot) + " listed twice"}
		}
		seenBot[r.Bot] = true
		for _, o := range r.Orders {
			if in.Order(o) == nil {
				return &ValidationError{Field: "solution", Reason: "unknown order " + string(o)}
			}
			if seenOrder[o] {
				return &ValidationError{Field: "solution", Reason: "order " + string(o) + " assigned twice"}
			}
			seenOrder[o] = true
		}
	}
	return nil
}
