package model

// UnknownNodeError marks a bot or order referencing a node that is not
// in the graph. Fatal at instance construction.
type UnknownNodeError struct {
	Ref  string
	Node NodeID
}

func (e *UnknownNodeError) Error() string {
	return e.Ref + " references unknown node " + string(e.Node)
}

// MalformedFreshnessError marks a freshness function whose bands do not
// form a valid piecewise cover. Fatal at load time.
type MalformedFreshnessError struct {
	Reason string
}

func (e *MalformedFreshnessError) Error() string {
	return "malformed freshness function: " + e.Reason
}

// ValidationError covers all other structural problems in instances
// and solutions.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}
