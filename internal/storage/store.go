package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
	trailsFile      = "trails.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset"`
	Timestamp    time.Time          `json:"timestamp"`
	Integrator   string             `json:"integrator"`
	Speed        int                `json:"speed"`
	Accuracy     int                `json:"accuracy"`
	SubStepCount int                `json:"sub_step_count"`
	SubStepSize  float64            `json:"sub_step_size"`
	Frames       int                `json:"frames"`
	SimTime      float64            `json:"sim_time"`
	Bodies       int                `json:"bodies"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Run is everything a finished headless run leaves behind.
type Run struct {
	Meta    RunMetadata
	Samples []metrics.Sample
	Trails  [][]dynamo.Vec2
}

// NewRun captures a controller snapshot together with its diagnostics.
func NewRun(snap sim.Snapshot, samples []metrics.Sample, values map[string]float64) *Run {
	trails := make([][]dynamo.Vec2, len(snap.Bodies))
	for i, b := range snap.Bodies {
		trails[i] = b.Trail
	}
	return &Run{
		Meta: RunMetadata{
			Preset:       snap.PresetName,
			Integrator:   snap.Integrator,
			Speed:        snap.Speed,
			Accuracy:     snap.Accuracy,
			SubStepCount: snap.SubStepCount,
			SubStepSize:  snap.SubStepSize,
			Frames:       snap.Frames,
			SimTime:      snap.Time,
			Bodies:       len(snap.Bodies),
			Metrics:      values,
		},
		Samples: samples,
		Trails:  trails,
	}
}

func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Meta.Preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = now

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, diagnosticsFile), diagnosticsRows(run.Samples)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, trailsFile), trailRows(run.Trails)); err != nil {
		return "", err
	}
	run.Meta = meta
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

var diagnosticsHeader = []string{
	"frame", "time", "kinetic", "potential", "total",
	"momentum_x", "momentum_y", "angular_momentum", "trail_points",
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func diagnosticsRows(samples []metrics.Sample) [][]string {
	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, diagnosticsHeader)
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.Itoa(s.Frame), ff(s.Time), ff(s.Kinetic), ff(s.Potential), ff(s.Total),
			ff(s.MomentumX), ff(s.MomentumY), ff(s.AngularMomentum), strconv.Itoa(s.TrailPoints),
		})
	}
	return rows
}

func trailRows(trails [][]dynamo.Vec2) [][]string {
	rows := [][]string{{"body", "index", "x", "y"}}
	for b, trail := range trails {
		for i, p := range trail {
			rows = append(rows, []string{strconv.Itoa(b), strconv.Itoa(i), ff(p.X), ff(p.Y)})
		}
	}
	return rows
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadSeries reads a run's per-frame diagnostics. Malformed rows are skipped.
func (s *Store) LoadSeries(runID string) ([]metrics.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(diagnosticsHeader) {
			continue
		}
		var vals [7]float64
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		frame, err1 := strconv.Atoi(rec[0])
		trail, err2 := strconv.Atoi(rec[8])
		if !ok || err1 != nil || err2 != nil {
			continue
		}
		samples = append(samples, metrics.Sample{
			Frame:           frame,
			Time:            vals[0],
			Kinetic:         vals[1],
			Potential:       vals[2],
			Total:           vals[3],
			MomentumX:       vals[4],
			MomentumY:       vals[5],
			AngularMomentum: vals[6],
			TrailPoints:     trail,
		})
	}
	return samples, nil
}

// LoadTrails reads a run's trails, indexed by body. Rows naming a body
// outside the run's recorded body count are skipped.
func (s *Store) LoadTrails(runID string) ([][]dynamo.Vec2, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, trailsFile))
	if err != nil {
		return nil, err
	}

	trails := make([][]dynamo.Vec2, 0, meta.Bodies)
	for _, rec := range records[min(1, len(records)):] {
		if len(rec) != 4 {
			continue
		}
		b, err := strconv.Atoi(rec[0])
		if err != nil || b < 0 || b >= meta.Bodies {
			continue
		}
		x, errX := strconv.ParseFloat(rec[2], 64)
		y, errY := strconv.ParseFloat(rec[3], 64)
		if errX != nil || errY != nil {
			continue
		}
		for len(trails) <= b {
			trails = append(trails, nil)
		}
		trails[b] = append(trails[b], dynamo.V(x, y))
	}
	return trails, nil
}
