package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botnav/internal/model"
)

func mustGraph(t *testing.T, edges []model.Edge) *model.Graph {
	t.Helper()
	g, err := model.NewGraph(edges)
	require.NoError(t, err)
	return g
}

func TestResolverCost(t *testing.T) {
	g := mustGraph(t, []model.Edge{
		{From: "A", To: "B", Minutes: 3},
		{From: "B", To: "C", Minutes: 2},
		{From: "A", To: "C", Minutes: 10},
	})
	r := NewResolver(g)

	cost, err := r.Cost("A", "C")
	require.NoError(t, err)
	assert.Equal(t, 5, cost, "two-hop route beats the direct edge")

	cost, err = r.Cost("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 3, cost)
}

func TestResolverZeroLengthPath(t *testing.T) {
	g := mustGraph(t, []model.Edge{{From: "A", To: "B", Minutes: 3}})
	r := NewResolver(g)

	cost, err := r.Cost("A", "A")
	require.NoError(t, err)
	assert.Equal(t, 0, cost)

	path, err := r.Path("A", "A")
	require.NoError(t, err)
	assert.Equal(t, []model.NodeID{"A"}, path)
}

func TestResolverNoPath(t *testing.T) {
	// edges are directed, so B cannot reach A
	g := mustGraph(t, []model.Edge{{From: "A", To: "B", Minutes: 3}})
	r := NewResolver(g)

	_, err := r.Cost("B", "A")
	require.ErrorIs(t, err, ErrNoPath)

	_, err = r.Path("B", "A")
	require.ErrorIs(t, err, ErrNoPath)
}

func TestResolverUnknownSource(t *testing.T) {
	g := mustGraph(t, []model.Edge{{From: "A", To: "B", Minutes: 3}})
	r := NewResolver(g)

	_, err := r.Cost("Z", "A")
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestResolverPathEndpoints(t *testing.T) {
	g := mustGraph(t, []model.Edge{
		{From: "A", To: "B", Minutes: 1},
		{From: "B", To: "C", Minutes: 1},
		{From: "C", To: "D", Minutes: 1},
	})
	r := NewResolver(g)

	path, err := r.Path("A", "D")
	require.NoError(t, err)
	assert.Equal(t, []model.NodeID{"A", "B", "C", "D"}, path)
}

func TestResolverDeterministicTies(t *testing.T) {
	// two equal-cost routes to D, via B and via C; the tie must resolve
	// the same way regardless of edge insertion order
	forward := []model.Edge{
		{From: "A", To: "B", Minutes: 1},
		{From: "A", To: "C", Minutes: 1},
		{From: "B", To: "D", Minutes: 1},
		{From: "C", To: "D", Minutes: 1},
	}
	reversed := []model.Edge{forward[3], forward[2], forward[1], forward[0]}

	p1, err := NewResolver(mustGraph(t, forward)).Path("A", "D")
	require.NoError(t, err)
	p2, err := NewResolver(mustGraph(t, reversed)).Path("A", "D")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, []model.NodeID{"A", "B", "D"}, p1, "tie broken toward the smaller predecessor id")
}

func TestResolverCachedQueriesAgree(t *testing.T) {
	g := mustGraph(t, []model.Edge{
		{From: "A", To: "B", Minutes: 2},
		{From: "B", To: "C", Minutes: 4},
	})
	r := NewResolver(g)
	first, err := r.Cost("A", "C")
	require.NoError(t, err)
	second, err := r.Cost("A", "C")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
