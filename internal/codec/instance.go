// Package codec reads and writes the textual instance, solution and
// instruction formats. It is a thin boundary around the core data
// model: parsing produces validated model values, writing consumes
// them, and nothing here touches scoring or search.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"botnav/internal/model"
)

// ParseError marks a malformed line. The whole file is rejected;
// malformed input is never silently skipped.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Instance file sections.
const (
	sectionGraph   = "[graph]"
	sectionBots    = "[bots]"
	sectionHorizon = "[time horizon]"
	sectionOrders  = "[orders]"
)

// ParseInstance reads an instance file: [graph], [bots],
// [time horizon] and [orders] sections with semicolon- or
// whitespace-delimited lines.
func ParseInstance(r io.Reader) (*model.Instance, error) {
	var (
		edges   []model.Edge
		bots    []model.Bot
		horizon model.TimeHorizon
		orders  []model.Order
		section string
	)
	seenStart, seenEnd := false, false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			switch strings.ToLower(line) {
			case sectionGraph, sectionBots, sectionHorizon, sectionOrders:
				section = strings.ToLower(line)
			default:
				return nil, &ParseError{Line: lineNo, Msg: "unknown section " + line}
			}
			continue
		}
		fields := splitLine(line)
		switch section {
		case sectionGraph:
			if len(fields) != 3 {
				return nil, &ParseError{Line: lineNo, Msg: "graph line wants tail;head;minutes"}
			}
			minutes, err := strconv.Atoi(fields[2])
			if err != nil || minutes < 0 {
				return nil, &ParseError{Line: lineNo, Msg: "bad transit time " + fields[2]}
			}
			edges = append(edges, model.Edge{From: model.NodeID(fields[0]), To: model.NodeID(fields[1]), Minutes: minutes})
		case sectionBots:
			if len(fields) != 2 {
				return nil, &ParseError{Line: lineNo, Msg: "bot line wants id;location"}
			}
			bots = append(bots, model.Bot{ID: model.BotID(fields[0]), Start: model.NodeID(fields[1])})
		case sectionHorizon:
			if len(fields) != 2 {
				return nil, &ParseError{Line: lineNo, Msg: "horizon line wants start|end HH:MM"}
			}
			c, err := model.ParseClock(fields[1])
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: err.Error()}
			}
			switch strings.ToLower(fields[0]) {
			case "start":
				horizon.Start = c
				seenStart = true
			case "end":
				horizon.End = c
				seenEnd = true
			default:
				return nil, &ParseError{Line: lineNo, Msg: "horizon key must be start or end"}
			}
		case sectionOrders:
			o, err := parseOrderLine(fields)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: err.Error()}
			}
			orders = append(orders, o)
		default:
			return nil, &ParseError{Line: lineNo, Msg: "data before any section header"}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenStart || !seenEnd {
		return nil, &ParseError{Line: lineNo, Msg: "time horizon needs both start and end"}
	}
	return model.NewInstance(edges, bots, horizon, orders)
}

// parseOrderLine parses id;restaurant;customer;HH:MM;start0:score0;...
func parseOrderLine(fields []string) (model.Order, error) {
	if len(fields) < 5 {
		return model.Order{}, fmt.Errorf("order line wants id;restaurant;customer;ready;band...")
	}
	ready, err := model.ParseClock(fields[3])
	if err != nil {
		return model.Order{}, err
	}
	var f model.FreshnessFunc
	for _, tok := range fields[4:] {
		s, sc, ok := strings.Cut(tok, ":")
		if !ok {
			return model.Order{}, fmt.Errorf("freshness band %q wants start:score", tok)
		}
		start, err := strconv.Atoi(s)
		if err != nil {
			return model.Order{}, fmt.Errorf("freshness band %q: bad start", tok)
		}
		score, err := strconv.Atoi(sc)
		if err != nil {
			return model.Order{}, fmt.Errorf("freshness band %q: bad score", tok)
		}
		f = append(f, model.Band{Start: start, Score: score})
	}
	return model.Order{
		ID:         model.OrderID(fields[0]),
		Restaurant: model.NodeID(fields[1]),
		Customer:   model.NodeID(fields[2]),
		Ready:      ready,
		Freshness:  f,
	}, nil
}

// splitLine splits on semicolons when present, otherwise on whitespace.
func splitLine(line string) []string {
	var raw []string
	if strings.Contains(line, ";") {
		raw = strings.Split(line, ";")
	} else {
		raw = strings.Fields(line)
	}
	out := raw[:0]
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
