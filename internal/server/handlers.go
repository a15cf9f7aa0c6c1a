package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/san-kum/kinematica/internal/memory"
	"github.com/san-kum/kinematica/internal/parse"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/san-kum/kinematica/internal/verify"
)

var errNoMemory = errors.New("memory store not configured")

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, problem.ErrInvalidParameter),
		errors.Is(err, problem.ErrNoRealSolution),
		errors.Is(err, problem.ErrUnsupportedProblemType),
		errors.Is(err, problem.ErrSimulationTimeout),
		errors.Is(err, parse.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, problem.ErrSimulationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var p problem.ParsedProblem
	if !decode(w, r, &p) {
		return
	}
	sol, err := s.pipeline.Solver().Solve(p)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, sol)
}

type simulateResponse struct {
	Result     problem.SimResult `json:"result"`
	Trajectory []problem.Sample  `json:"trajectory"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var p problem.ParsedProblem
	if !decode(w, r, &p) {
		return
	}
	res, err := s.pipeline.Simulator().Simulate(p)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, simulateResponse{Result: res, Trajectory: res.Trajectory})
}

// solutionInput is the client-supplied part of a solution. Details are
// recomputed server-side.
type solutionInput struct {
	Answer   problem.Answer `json:"answer"`
	Unit     string         `json:"unit"`
	Quantity string         `json:"quantity"`
	Method   string         `json:"method"`
	Steps    []string       `json:"steps"`
}

type verifyRequest struct {
	Problem  problem.ParsedProblem `json:"problem"`
	Solution *solutionInput        `json:"solution,omitempty"`
}

// handleVerify checks a supplied solution, or the solver's own when none is
// given. Verification outcomes are always 200.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}

	var sol problem.Solution
	if req.Solution == nil {
		solved, err := s.pipeline.Solver().Solve(req.Problem)
		if err != nil {
			fail(w, statusFor(err), err)
			return
		}
		sol = solved
	} else {
		in := req.Solution
		sol = problem.Solution{
			Answer:   in.Answer,
			Unit:     in.Unit,
			Quantity: in.Quantity,
			Method:   in.Method,
			Steps:    in.Steps,
		}
	}

	ok(w, verify.New(s.pipeline.Simulator(), nil).Verify(req.Problem, sol))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var p problem.ParsedProblem
	if !decode(w, r, &p) {
		return
	}
	rep, err := s.pipeline.Check(r.Context(), p)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, rep)
}

type batchRequest struct {
	Problems []problem.ParsedProblem `json:"problems"`
	Workers  int                     `json:"workers"`
}

func (s *Server) handleCheckBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Problems) == 0 || len(req.Problems) > maxBatch {
		fail(w, http.StatusBadRequest, fmt.Errorf("batch must hold between 1 and %d problems", maxBatch))
		return
	}
	workers := req.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	items, err := s.pipeline.CheckAll(r.Context(), req.Problems, workers)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, items)
}

type parseRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := s.parser.Parse(r.Context(), req.Text)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, p)
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	mem := s.pipeline.Memory()
	if mem == nil {
		fail(w, http.StatusServiceUnavailable, errNoMemory)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		fail(w, http.StatusBadRequest, errors.New("missing query parameter q"))
		return
	}
	matches, err := mem.Recall(r.Context(), q, queryInt(r, "limit", memory.DefaultRecallLimit))
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, matches)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	mem := s.pipeline.Memory()
	if mem == nil {
		fail(w, http.StatusServiceUnavailable, errNoMemory)
		return
	}
	in, err := mem.Insights(r.Context())
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, in)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List()
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	if limit := queryInt(r, "limit", 0); limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	ok(w, runs)
}

type runResponse struct {
	Run        *storage.RunMetadata `json:"run"`
	Trajectory []problem.Sample     `json:"trajectory"`
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	meta, err := s.store.Load(id)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	traj, err := s.store.LoadTrajectory(id)
	if err != nil {
		fail(w, statusFor(err), err)
		return
	}
	ok(w, runResponse{Run: meta, Trajectory: traj})
}
