package opt

import "sync"

// In-process registry of run metrics, keyed by instance and algorithm.
// The API surfaces it so operators can compare backends on the same
// instance.

type runKey struct {
	Instance string
	Algo     string
}

var (
	runMu   sync.Mutex
	runInfo = map[runKey]Metrics{}
)

// RecordRun stores the metrics of a finished optimization run,
// replacing any earlier run of the same backend on the same instance.
func RecordRun(instanceID, algo string, m Metrics) {
	runMu.Lock()
	runInfo[runKey{Instance: instanceID, Algo: algo}] = m
	runMu.Unlock()
}

// RunsFor returns recorded metrics per algorithm for one instance.
func RunsFor(instanceID string) map[string]Metrics {
	runMu.Lock()
	defer runMu.Unlock()
	out := map[string]Metrics{}
	for k, v := range runInfo {
		if k.Instance == instanceID {
			out[k.Algo] = v
		}
	}
	return out
}
