package routing

import "errors"

// ErrNoPath indicates the destination is unreachable from the source.
// Distinct from a zero-length path (from == to, cost 0).
var ErrNoPath = errors.New("routing: no path")

// ErrUnknownSource indicates the source node is not in the graph.
var ErrUnknownSource = errors.New("routing: unknown source node")
