package codec

import (
	"bytes"
	"strings"
	"testing"

	"botnav/internal/model"
	"botnav/internal/render"
)

func TestWriteInstructions(t *testing.T) {
	scripts := []render.BotScript{{
		Bot: "bot1",
		Actions: []render.Action{
			{Kind: render.ActionMove, Node: "B"},
			{Kind: render.ActionCollect},
			{Kind: render.ActionMove, Node: "C"},
			{Kind: render.ActionDeliver},
		},
	}}
	var buf bytes.Buffer
	if err := WriteInstructions(&buf, scripts); err != nil {
		t.Fatalf("WriteInstructions: %v", err)
	}
	want := "[bot1]\ngo to B\ncollect food\ngo to C\ndeliver food\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestInstructionsRoundTrip(t *testing.T) {
	scripts := []render.BotScript{
		{Bot: "bot1", Actions: []render.Action{
			{Kind: render.ActionMove, Node: "B"},
			{Kind: render.ActionCollect},
			{Kind: render.ActionMove, Node: "C"},
			{Kind: render.ActionDeliver},
		}},
		{Bot: "bot2", Actions: []render.Action{}},
	}
	var buf bytes.Buffer
	if err := WriteInstructions(&buf, scripts); err != nil {
		t.Fatalf("WriteInstructions: %v", err)
	}
	back, err := ParseInstructions(&buf)
	if err != nil {
		t.Fatalf("ParseInstructions: %v", err)
	}
	if len(back) != len(scripts) {
		t.Fatalf("scripts = %d, want %d", len(back), len(scripts))
	}
	for i, s := range scripts {
		got := back[i]
		if got.Bot != s.Bot || len(got.Actions) != len(s.Actions) {
			t.Fatalf("script %d = %+v, want %+v", i, got, s)
		}
		for j, a := range s.Actions {
			if got.Actions[j] != a {
				t.Fatalf("script %d action %d = %+v, want %+v", i, j, got.Actions[j], a)
			}
		}
	}
}

func TestParseInstructionsRejectsHeaderless(t *testing.T) {
	_, err := ParseInstructions(strings.NewReader("go to B\n"))
	if err == nil {
		t.Fatal("instruction before header: expected error")
	}
}

func TestRenderEndToEnd(t *testing.T) {
	in, err := model.NewInstance(
		[]model.Edge{
			{From: "A", To: "M", Minutes: 1},
			{From: "M", To: "B", Minutes: 2},
			{From: "B", To: "C", Minutes: 2},
		},
		[]model.Bot{{ID: "bot1", Start: "A"}},
		model.TimeHorizon{Start: 480, End: 1080},
		[]model.Order{{ID: "o1", Restaurant: "B", Customer: "C", Ready: 480,
			Freshness: model.FreshnessFunc{{Start: 0, Score: 100}, {Start: 5, Score: 0}}}},
	)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	sol := model.Solution{Routes: []model.Route{{Bot: "bot1", Orders: []model.OrderID{"o1"}}}}
	scripts, err := render.Render(in, sol)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteInstructions(&buf, scripts); err != nil {
		t.Fatalf("WriteInstructions: %v", err)
	}
	want := "[bot1]\ngo to M\ngo to B\ncollect food\ngo to C\ndeliver food\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
