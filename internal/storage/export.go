package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
)

type ExportData struct {
	Meta    RunMetadata      `json:"meta"`
	Samples []metrics.Sample `json:"samples"`
	Trails  [][]dynamo.Vec2  `json:"trails"`
}

func ExportJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: run.Meta, Samples: run.Samples, Trails: run.Trails})
}

// Open loads everything stored for runID.
func (s *Store) Open(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	trails, err := s.LoadTrails(runID)
	if err != nil {
		return nil, err
	}
	return &Run{Meta: *meta, Samples: samples, Trails: trails}, nil
}
