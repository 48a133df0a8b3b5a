package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"botnav/internal/codec"
	"botnav/internal/metrics"
	"botnav/internal/model"
	"botnav/internal/opt"
	"botnav/internal/render"
	"botnav/internal/sim"
	"botnav/internal/store"
)

const maxBodyBytes = 4 << 20

// EvaluateRequest scores an existing instance against a solution given
// either as solution-file text or as structured routes.
type EvaluateRequest struct {
	InstanceID string        `json:"instanceId"`
	Solution   string        `json:"solution,omitempty"`
	Routes     []model.Route `json:"routes,omitempty"`
}

type EvaluateResponse struct {
	Score    int                      `json:"score"`
	Baseline int                      `json:"baseline"`
	Scores   map[model.OrderID]int    `json:"scores"`
	Arrivals map[model.OrderID]string `json:"arrivals"` // HH:MM or "unserved"
}

type OptimizeRequest struct {
	InstanceID       string    `json:"instanceId"`
	RunID            string    `json:"runId,omitempty"`
	Algorithm        string    `json:"algorithm,omitempty"`
	TimeBudgetMs     int       `json:"timeBudgetMs,omitempty"`
	MaxIterations    int       `json:"maxIterations,omitempty"`
	Seed             int64     `json:"seed,omitempty"`
	InitTemp         float64   `json:"initTemp,omitempty"`
	Cooling          float64   `json:"cooling,omitempty"`
	RemovalWeights   []float64 `json:"removalWeights,omitempty"`
	InsertionWeights []float64 `json:"insertionWeights,omitempty"`
}

type OptimizeResponse struct {
	RunID    string         `json:"runId"`
	Solution store.Solution `json:"solution"`
}

// InstancesHandler accepts instance-file text on POST and lists stored
// instances on GET.
func (s *Server) InstancesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "read body", err.Error())
			return
		}
		inst, err := codec.ParseInstance(strings.NewReader(string(body)))
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "parse instance", err.Error())
			return
		}
		for _, warn := range inst.SanityWarnings() {
			log.Printf("instance warning: %s", warn)
		}
		rec, err := s.Store.CreateInstance(r.Context(), r.URL.Query().Get("name"), string(body), inst)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "store instance", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	case http.MethodGet:
		items, err := s.Store.ListInstances(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "list instances", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

// InstanceByIDHandler serves GET /v1/instances/{id}; with a trailing
// /raw it returns the original file text.
func (s *Server) InstanceByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/instances/")
	id, sub, _ := strings.Cut(rest, "/")
	rec, err := s.Store.GetInstance(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "instance not found", id)
		return
	}
	if sub == "raw" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, rec.Raw)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        rec.ID,
		"name":      rec.Name,
		"createdAt": rec.CreatedAt,
		"bots":      len(rec.Model.Bots),
		"orders":    len(rec.Model.Orders),
		"nodes":     rec.Model.Graph.NodeCount(),
		"horizon":   map[string]string{"start": rec.Model.Horizon.Start.String(), "end": rec.Model.Horizon.End.String()},
	})
}

// EvaluateHandler simulates and scores a supplied solution.
func (s *Server) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req EvaluateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "decode request", err.Error())
		return
	}
	rec, err := s.Store.GetInstance(r.Context(), req.InstanceID)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "instance not found", req.InstanceID)
		return
	}
	sol, err := solutionFromRequest(req)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "parse solution", err.Error())
		return
	}
	ev, err := sim.New(rec.Model).Evaluate(sol)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "invalid solution", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{
		Score:    ev.Total,
		Baseline: sim.BaselineScore(rec.Model),
		Scores:   ev.Scores,
		Arrivals: arrivalStrings(ev.Arrivals),
	})
}

// OptimizeHandler runs the optimizer on a stored instance and persists
// the best solution found. Progress events go to the broker under the
// run id so clients subscribed on the websocket endpoint can follow
// along.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	if !s.optLimit.Allow() {
		writeProblem(w, http.StatusTooManyRequests, "rate limited", "optimize requests exceed the configured rate")
		return
	}
	var req OptimizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "decode request", err.Error())
		return
	}
	if err := validateOptimizeRequest(&req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "invalid request", err.Error())
		return
	}
	rec, err := s.Store.GetInstance(r.Context(), req.InstanceID)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "instance not found", req.InstanceID)
		return
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	params := opt.Params{
		Algorithm:        req.Algorithm,
		Seed:             req.Seed,
		TimeBudget:       time.Duration(req.TimeBudgetMs) * time.Millisecond,
		IterationsLimit:  req.MaxIterations,
		InitialTemp:      req.InitTemp,
		Cooling:          req.Cooling,
		RemovalWeights:   req.RemovalWeights,
		InsertionWeights: req.InsertionWeights,
		Progress: func(e opt.Event) {
			s.Broker.Publish(runID, ProgressEvent{Type: e.Type, Data: map[string]any{
				"iteration": e.Iteration,
				"bestScore": e.BestScore,
				"temp":      e.Temp,
			}})
		},
	}
	if params.TimeBudget <= 0 {
		params.TimeBudget = s.Cfg.TimeBudget()
	}
	best, runMetrics, err := opt.Optimize(r.Context(), rec.Model, params)
	algo := params.Algorithm
	if algo == "" {
		algo = opt.AlgorithmALNS
	}
	if err != nil {
		metrics.OptimizeRuns.WithLabelValues(algo, "error").Inc()
		writeProblem(w, http.StatusInternalServerError, "optimize", err.Error())
		return
	}
	metrics.OptimizeRuns.WithLabelValues(algo, "ok").Inc()
	metrics.OptimizeIterations.WithLabelValues(algo).Observe(float64(runMetrics.Iterations))
	metrics.OptimizeBestScore.WithLabelValues(rec.ID, algo).Set(float64(runMetrics.BestScore))
	opt.RecordRun(rec.ID, algo, runMetrics)

	stored, err := s.Store.CreateSolution(r.Context(), store.Solution{
		InstanceID: rec.ID,
		Algorithm:  algo,
		Score:      runMetrics.BestScore,
		Routes:     best,
		Metrics:    &runMetrics,
	})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "store solution", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, OptimizeResponse{RunID: runID, Solution: stored})
}

// SolutionsHandler lists solutions for an instance.
func (s *Server) SolutionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	instanceID := r.URL.Query().Get("instance")
	if instanceID == "" {
		writeProblem(w, http.StatusBadRequest, "missing parameter", "instance query parameter required")
		return
	}
	items, err := s.Store.ListSolutions(r.Context(), instanceID)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "list solutions", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// SolutionByIDHandler serves GET /v1/solutions/{id}. Subpaths: /file
// returns solution-file text, /instructions the rendered walking
// script.
func (s *Server) SolutionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/solutions/")
	id, sub, _ := strings.Cut(rest, "/")
	sol, err := s.Store.GetSolution(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "solution not found", id)
		return
	}
	switch sub {
	case "":
		writeJSON(w, http.StatusOK, sol)
	case "file":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = codec.WriteSolution(w, sol.Routes)
	case "instructions":
		rec, err := s.Store.GetInstance(r.Context(), sol.InstanceID)
		if err != nil {
			writeProblem(w, http.StatusNotFound, "instance not found", sol.InstanceID)
			return
		}
		scripts, err := render.Render(rec.Model, sol.Routes)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "render instructions", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = codec.WriteInstructions(w, scripts)
	default:
		writeProblem(w, http.StatusNotFound, "unknown subresource", sub)
	}
}

// RunMetricsHandler reports recorded optimizer runs for an instance,
// per algorithm.
func (s *Server) RunMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	instanceID := r.URL.Query().Get("instance")
	if instanceID == "" {
		writeProblem(w, http.StatusBadRequest, "missing parameter", "instance query parameter required")
		return
	}
	writeJSON(w, http.StatusOK, opt.RunsFor(instanceID))
}

func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "store unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func solutionFromRequest(req EvaluateRequest) (model.Solution, error) {
	if req.Solution != "" {
		return codec.ParseSolution(strings.NewReader(req.Solution))
	}
	if len(req.Routes) == 0 {
		return model.Solution{}, errors.New("either solution text or routes required")
	}
	return model.Solution{Routes: req.Routes}, nil
}

func arrivalStrings(arrivals map[model.OrderID]model.Clock) map[model.OrderID]string {
	out := make(map[model.OrderID]string, len(arrivals))
	for id, at := range arrivals {
		if at == sim.Unserved {
			out[id] = "unserved"
		} else {
			out[id] = at.String()
		}
	}
	return out
}
