package model

// Core domain types for the routing problem.

type NodeID string

type BotID string

type OrderID string

// Edge is a directed connection with a transit time in whole minutes.
type Edge struct {
	From    NodeID `json:"from"`
	To      NodeID `json:"to"`
	Minutes int    `json:"minutes"`
}

// Bot is an autonomous delivery unit with a fixed start location.
type Bot struct {
	ID    BotID  `json:"id"`
	Start NodeID `json:"start"`
}

// TimeHorizon bounds all planned activity to [Start, End] on one day.
type TimeHorizon struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// Order is a pickup at Restaurant and a dropoff at Customer. It cannot
// leave the restaurant before Ready; its delivered value is given by
// Freshness evaluated at minutes late relative to Ready.
type Order struct {
	ID         OrderID       `json:"id"`
	Restaurant NodeID        `json:"restaurant"`
	Customer   NodeID        `json:"customer"`
	Ready      Clock         `json:"ready"`
	Freshness  FreshnessFunc `json:"freshness"`
}

// Instance is the immutable, validated problem: graph, fleet, horizon
// and order book. Construct with NewInstance.
type Instance struct {
	Graph   *Graph      `json:"-"`
	Edges   []Edge      `json:"edges"`
	Bots    []Bot       `json:"bots"`
	Horizon TimeHorizon `json:"horizon"`
	Orders  []Order     `json:"orders"`

	orderByID map[OrderID]*Order
	botByID   map[BotID]*Bot
}

// NewInstance builds and validates an Instance. Every node referenced
// by a bot or order must exist in the graph; ids must be unique; the
// horizon must be a non-empty window.
func NewInstance(edges []Edge, bots []Bot, horizon TimeHorizon, orders []Order) (*Instance, error) {
	g, err := NewGraph(edges)
	if err != nil {
		return nil, err
	}
	if horizon.Start >= horizon.End {
		return nil, &ValidationError{Field: "time horizon", Reason: "start must be before end"}
	}
	in := &Instance{
		Graph:     g,
		Edges:     edges,
		Bots:      bots,
		Horizon:   horizon,
		Orders:    orders,
		orderByID: make(map[OrderID]*Order, len(orders)),
		botByID:   make(map[BotID]*Bot, len(bots)),
	}
	for i := range in.Bots {
		b := &in.Bots[i]
		if _, dup := in.botByID[b.ID]; dup {
			return nil, &ValidationError{Field: "bots", Reason: "duplicate bot id " + string(b.ID)}
		}
		if !g.HasNode(b.Start) {
			return nil, &UnknownNodeError{Ref: "bot " + string(b.ID), Node: b.Start}
		}
		in.botByID[b.ID] = b
	}
	for i := range in.Orders {
		o := &in.Orders[i]
		if _, dup := in.orderByID[o.ID]; dup {
			return nil, &ValidationError{Field: "orders", Reason: "duplicate order id " + string(o.ID)}
		}
		if !g.HasNode(o.Restaurant) {
			return nil, &UnknownNodeError{Ref: "order " + string(o.ID) + " restaurant", Node: o.Restaurant}
		}
		if !g.HasNode(o.Customer) {
			return nil, &UnknownNodeError{Ref: "order " + string(o.ID) + " customer", Node: o.Customer}
		}
		if err := o.Freshness.Validate(); err != nil {
			return nil, err
		}
		in.orderByID[o.ID] = o
	}
	return in, nil
}

// Order returns the order with the given id, or nil.
func (in *Instance) Order(id OrderID) *Order { return in.orderByID[id] }

// Bot returns the bot with the given id, or nil.
func (in *Instance) Bot(id BotID) *Bot { return in.botByID[id] }

// SanityWarnings reports non-fatal oddities worth logging: freshness
// functions that are not monotonically non-increasing, or ready times
// outside the horizon.
func (in *Instance) SanityWarnings() []string {
	var warns []string
	for i := range in.Orders {
		o := &in.Orders[i]
		if !o.Freshness.NonIncreasing() {
			warns = append(warns, "order "+string(o.ID)+": freshness score increases with lateness")
		}
		if o.Ready < in.Horizon.Start || o.Ready > in.Horizon.End {
			warns = append(warns, "order "+string(o.ID)+": ready time outside horizon")
		}
	}
	return warns
}
