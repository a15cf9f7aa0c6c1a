package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/kinematica/internal/problem"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"t", "x", "z", "speed"}

// Store keeps verification runs on disk, one directory per run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Run is everything produced by one check of a problem.
type Run struct {
	Problem      problem.ParsedProblem
	Solution     problem.Solution
	Verification problem.VerificationResult
	Sim          *problem.SimResult
	Integrator   string
	Dt           float64
}

// RunMetadata is the persisted summary. Per-family measurements are
// flattened into Measured so the file decodes without knowing the family.
type RunMetadata struct {
	ID           string                     `json:"id"`
	Family       problem.Family             `json:"family"`
	Timestamp    time.Time                  `json:"timestamp"`
	Integrator   string                     `json:"integrator"`
	Dt           float64                    `json:"dt"`
	Problem      problem.ParsedProblem      `json:"problem"`
	Answer       problem.Answer             `json:"answer"`
	Method       string                     `json:"method"`
	Unit         string                     `json:"unit"`
	Quantity     string                     `json:"quantity"`
	Steps        []string                   `json:"steps"`
	Verification problem.VerificationResult `json:"verification"`
	SimSteps     int                        `json:"sim_steps"`
	SimTime      float64                    `json:"sim_time"`
	EnergyDrift  float64                    `json:"energy_drift"`
	Measured     map[string]float64         `json:"measured,omitempty"`
	Samples      int                        `json:"samples"`
}

func (s *Store) Save(run Run) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	runID := fmt.Sprintf("%s_%s", run.Problem.Family.Slug(), id)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Family:       run.Problem.Family,
		Timestamp:    time.Now().UTC(),
		Integrator:   run.Integrator,
		Dt:           run.Dt,
		Problem:      run.Problem,
		Answer:       run.Solution.Answer,
		Method:       run.Solution.Method,
		Unit:         run.Solution.Unit,
		Quantity:     run.Solution.Quantity,
		Steps:        run.Solution.Steps,
		Verification: run.Verification,
	}

	var trajectory []problem.Sample
	if run.Sim != nil {
		meta.SimSteps = run.Sim.Steps
		meta.SimTime = run.Sim.SimTime
		meta.EnergyDrift = run.Sim.EnergyDrift
		meta.Samples = len(run.Sim.Trajectory)
		trajectory = run.Sim.Trajectory
		if meta.Measured, err = flatten(run.Sim.Measurement); err != nil {
			return "", err
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	if err := Export(metaFile, &meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTrajectory(csvFile, trajectory); err != nil {
		return "", err
	}
	return runID, nil
}

// Solution rebuilds the stored solution without its per-family details.
func (m RunMetadata) Solution() problem.Solution {
	return problem.Solution{
		Answer:     m.Answer,
		Unit:       m.Unit,
		Method:     m.Method,
		Steps:      m.Steps,
		Confidence: m.Verification.Confidence,
		Quantity:   m.Quantity,
	}
}

// Export writes run metadata as indented JSON.
func Export(w io.Writer, meta *RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns stored runs, newest first. Unreadable directories are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if !validID(runID) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]problem.Sample, error) {
	if !validID(runID) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []problem.Sample{}, nil
	}

	samples := make([]problem.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(trajectoryHeader) {
			continue
		}
		var vals [4]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, problem.Sample{T: vals[0], X: vals[1], Z: vals[2], Speed: vals[3]})
	}
	return samples, nil
}

// validID rejects names that would leave the base directory.
func validID(runID string) bool {
	return runID != "" && runID != "." && runID != ".." && !strings.ContainsAny(runID, `/\`)
}

func writeTrajectory(f io.Writer, samples []problem.Sample) error {
	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			strconv.FormatFloat(smp.X, 'f', 6, 64),
			strconv.FormatFloat(smp.Z, 'f', 6, 64),
			strconv.FormatFloat(smp.Speed, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func flatten(m problem.Measurement) (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out, nil
}
