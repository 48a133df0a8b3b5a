// Package render turns a solution into per-bot walking scripts. It
// derives everything from the resolver's paths and carries no scoring
// logic.
package render

import (
	"fmt"

	"botnav/internal/model"
	"botnav/internal/routing"
)

// Action kinds in a bot script.
const (
	ActionMove    = "move"
	ActionCollect = "collect"
	ActionDeliver = "deliver"
)

// Action is one step of a bot script. Node is set for move actions.
type Action struct {
	Kind string       `json:"kind"`
	Node model.NodeID `json:"node,omitempty"`
}

// BotScript is the ordered action list for one bot.
type BotScript struct {
	Bot     model.BotID `json:"bot"`
	Actions []Action    `json:"actions"`
}

// Render expands each bot's order sequence into move/collect/deliver
// actions. Every intermediate node of each shortest-path leg appears as
// a move action, excluding the bot's current position and including the
// leg's destination.
func Render(inst *model.Instance, sol model.Solution) ([]BotScript, error) {
	if err := sol.Validate(inst); err != nil {
		return nil, err
	}
	res := routing.NewResolver(inst.Graph)
	scripts := make([]BotScript, 0, len(sol.Routes))
	for _, r := range sol.Routes {
		bot := inst.Bot(r.Bot)
		script := BotScript{Bot: r.Bot, Actions: []Action{}}
		at := bot.Start
		for _, id := range r.Orders {
			o := inst.Order(id)
			var err error
			at, err = appendLeg(&script, res, at, o.Restaurant)
			if err != nil {
				return nil, fmt.Errorf("bot %s: order %s pickup leg: %w", r.Bot, id, err)
			}
			script.Actions = append(script.Actions, Action{Kind: ActionCollect})
			at, err = appendLeg(&script, res, at, o.Customer)
			if err != nil {
				return nil, fmt.Errorf("bot %s: order %s delivery leg: %w", r.Bot, id, err)
			}
			script.Actions = append(script.Actions, Action{Kind: ActionDeliver})
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

func appendLeg(script *BotScript, res *routing.Resolver, from, to model.NodeID) (model.NodeID, error) {
	path, err := res.Path(from, to)
	if err != nil {
		return from, err
	}
	for _, n := range path[1:] {
		script.Actions = append(script.Actions, Action{Kind: ActionMove, Node: n})
	}
	return to, nil
}
