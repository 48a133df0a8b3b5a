package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"botnav/internal/model"
)

// ParseSolution reads one line per bot: bot_id;order_1;...;order_n in
// visiting order. A line with only a bot id is an empty route.
func ParseSolution(r io.Reader) (model.Solution, error) {
	var sol model.Solution
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := splitLine(line)
		route := model.Route{Bot: model.BotID(fields[0])}
		for _, f := range fields[1:] {
			route.Orders = append(route.Orders, model.OrderID(f))
		}
		sol.Routes = append(sol.Routes, route)
	}
	if err := sc.Err(); err != nil {
		return model.Solution{}, err
	}
	if len(sol.Routes) == 0 {
		return model.Solution{}, &ParseError{Line: lineNo, Msg: "solution file has no routes"}
	}
	return sol, nil
}

// WriteSolution writes the solution in the same one-line-per-bot form.
func WriteSolution(w io.Writer, sol model.Solution) error {
	bw := bufio.NewWriter(w)
	for _, r := range sol.Routes {
		parts := make([]string, 0, len(r.Orders)+1)
		parts = append(parts, string(r.Bot))
		for _, o := range r.Orders {
			parts = append(parts, string(o))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, ";")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
