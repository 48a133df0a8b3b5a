package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"botnav/internal/model"
)

func TestParseSolution(t *testing.T) {
	text := "bot1;o1;o2\nbot2\n"
	sol, err := ParseSolution(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseSolution: %v", err)
	}
	if len(sol.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(sol.Routes))
	}
	r := sol.Routes[0]
	if r.Bot != "bot1" || len(r.Orders) != 2 || r.Orders[0] != "o1" || r.Orders[1] != "o2" {
		t.Fatalf("route 0 = %+v", r)
	}
	if sol.Routes[1].Bot != "bot2" || len(sol.Routes[1].Orders) != 0 {
		t.Fatalf("route 1 = %+v", sol.Routes[1])
	}
}

func TestParseSolutionEmptyFile(t *testing.T) {
	_, err := ParseSolution(strings.NewReader("\n\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ParseError", err)
	}
}

func TestSolutionRoundTrip(t *testing.T) {
	sol := model.Solution{Routes: []model.Route{
		{Bot: "bot1", Orders: []model.OrderID{"o1", "o3"}},
		{Bot: "bot2", Orders: []model.OrderID{"o2"}},
		{Bot: "bot3"},
	}}
	var buf bytes.Buffer
	if err := WriteSolution(&buf, sol); err != nil {
		t.Fatalf("WriteSolution: %v", err)
	}
	back, err := ParseSolution(&buf)
	if err != nil {
		t.Fatalf("ParseSolution: %v", err)
	}
	if len(back.Routes) != len(sol.Routes) {
		t.Fatalf("routes = %d, want %d", len(back.Routes), len(sol.Routes))
	}
	for i, r := range sol.Routes {
		got := back.Routes[i]
		if got.Bot != r.Bot || len(got.Orders) != len(r.Orders) {
			t.Fatalf("route %d = %+v, want %+v", i, got, r)
		}
		for j := range r.Orders {
			if got.Orders[j] != r.Orders[j] {
				t.Fatalf("route %d order %d = %s, want %s", i, j, got.Orders[j], r.Orders[j])
			}
		}
	}
}
