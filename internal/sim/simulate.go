// Package sim replays a solution into concrete arrival times and scores
// it with the orders' freshness functions. Simulation is a pure
// function of (instance, solution): no randomness, no state across
// calls.
package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"botnav/internal/model"
	"botnav/internal/routing"
)

// Handling delays in minutes, fixed for every order.
const (
	RestaurantHandlingMinutes = 1
	DeliveryMinutes           = 5
)

// Unserved marks an order absent from every route.
const Unserved model.Clock = -1

// Result maps every order of the instance to its simulated arrival
// clock, or Unserved.
type Result struct {
	Arrivals map[model.OrderID]model.Clock `json:"arrivals"`
	// Finish is each bot's clock after completing its route.
	Finish map[model.BotID]model.Clock `json:"finish"`
}

// Simulator replays solutions against one instance.
type Simulator struct {
	inst *model.Instance
	res  *routing.Resolver
}

// New creates a Simulator with its own path resolver.
func New(inst *model.Instance) *Simulator {
	return &Simulator{inst: inst, res: routing.NewResolver(inst.Graph)}
}

// NewWithResolver creates a Simulator sharing an existing resolver (and
// its path cache) with other consumers.
func NewWithResolver(inst *model.Instance, res *routing.Resolver) *Simulator {
	return &Simulator{inst: inst, res: res}
}

// Resolver exposes the shared path resolver.
func (s *Simulator) Resolver() *routing.Resolver { return s.res }

// Simulate replays every bot's route. Bots are independent, so routes
// are simulated concurrently and the disjoint per-order results merged.
// A solution requiring a leg with no path is invalid and rejected; it
// is never scored as unserved.
func (s *Simulator) Simulate(sol model.Solution) (Result, error) {
	if err := sol.Validate(s.inst); err != nil {
		return Result{}, err
	}
	out := Result{
		Arrivals: make(map[model.OrderID]model.Clock, len(s.inst.Orders)),
		Finish:   make(map[model.BotID]model.Clock, len(sol.Routes)),
	}
	for i := range s.inst.Orders {
		out.Arrivals[s.inst.Orders[i].ID] = Unserved
	}

	type botRun struct {
		bot      model.BotID
		arrivals map[model.OrderID]model.Clock
		finish   model.Clock
	}
	runs := make([]botRun, len(sol.Routes))
	g, _ := errgroup.WithContext(context.Background())
	for i, r := range sol.Routes {
		i, r := i, r
		g.Go(func() error {
			arr, finish, err := s.SimulateRoute(r.Bot, r.Orders)
			if err != nil {
				return err
			}
			runs[i] = botRun{bot: r.Bot, arrivals: arr, finish: finish}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	for _, run := range runs {
		out.Finish[run.bot] = run.finish
		for id, t := range run.arrivals {
			out.Arrivals[id] = t
		}
	}
	return out, nil
}

// SimulateRoute folds one bot's order sequence into arrival times.
// State is just (node, clock); the bot finishes each order completely
// before starting the next. Arrival times are recorded literally even
// when they run past the horizon end; enforcing the horizon is the
// optimizer's feasibility filter, not the simulator's.
func (s *Simulator) SimulateRoute(bot model.BotID, orders []model.OrderID) (map[model.OrderID]model.Clock, model.Clock, error) {
	b := s.inst.Bot(bot)
	if b == nil {
		return nil, 0, &model.ValidationError{Field: "solution", Reason: "unknown bot " + string(bot)}
	}
	at := b.Start
	now := s.inst.Horizon.Start
	arrivals := make(map[model.OrderID]model.Clock, len(orders))
	for _, id := range orders {
		o := s.inst.Order(id)
		if o == nil {
			return nil, 0, &model.ValidationError{Field: "solution", Reason: "unknown order " + string(id)}
		}
		toRestaurant, err := s.res.Cost(at, o.Restaurant)
		if err != nil {
			return nil, 0, fmt.Errorf("bot %s: order %s pickup leg: %w", bot, id, err)
		}
		arriveRestaurant := now.Add(toRestaurant)
		// departure = max(arrival+1, ready+1): the one-minute handling
		// is added before the max against the ready time
		depart := maxClock(
			arriveRestaurant.Add(RestaurantHandlingMinutes),
			o.Ready.Add(RestaurantHandlingMinutes),
		)
		toCustomer, err := s.res.Cost(o.Restaurant, o.Customer)
		if err != nil {
			return nil, 0, fmt.Errorf("bot %s: order %s delivery leg: %w", bot, id, err)
		}
		arriveCustomer := depart.Add(toCustomer)
		arrivals[id] = arriveCustomer
		now = arriveCustomer.Add(DeliveryMinutes)
		at = o.Customer
	}
	return arrivals, now, nil
}

func maxClock(a, b model.Clock) model.Clock {
	if a > b {
		return a
	}
	return b
}
