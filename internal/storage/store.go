// Package storage persists solved trajectories and their run metadata.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/attractors/internal/dynamo"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrInvalidID = errors.New("storage: invalid run id")
)

// Store saves trajectories under generated run ids.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, tr *dynamo.Trajectory, meta RunMetadata) (string, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, id string) (*RunMetadata, error)
	LoadTrajectory(ctx context.Context, id string) (*dynamo.Trajectory, error)
	Close() error
}

// RunMetadata describes one saved run. Save fills the fields that can be
// read off the trajectory.
type RunMetadata struct {
	ID        string             `json:"id"`
	System    string             `json:"system"`
	Timestamp time.Time          `json:"timestamp"`
	Method    string             `json:"method"`
	TMax      float64            `json:"t_max"`
	Dt        float64            `json:"dt"`
	Initial   dynamo.State       `json:"initial_state"`
	Params    map[string]float64 `json:"params"`
	Points    int                `json:"points"`
	Diverged  int                `json:"diverged"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Complete copies what the trajectory knows into meta and stamps it.
func (m RunMetadata) Complete(tr *dynamo.Trajectory, now time.Time) RunMetadata {
	m.System = tr.System
	m.Dt = tr.Dt
	m.Params = tr.Params.Clone()
	m.Points = tr.Len()
	if tr.Len() > 0 && m.Initial == (dynamo.State{}) {
		m.Initial = tr.States[0]
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = now.UTC()
	}
	if m.ID == "" {
		m.ID = NewRunID(tr.System, m.Timestamp)
	}
	return m
}

// NewRunID builds a file-safe id from the system name and a timestamp.
func NewRunID(system string, t time.Time) string {
	slug := dynamo.Slug(system)
	if slug == "" {
		slug = "run"
	}
	return fmt.Sprintf("%s_%d", slug, t.UnixNano())
}

// SortRuns orders runs newest first.
func SortRuns(runs []RunMetadata) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
}

// FormatFloat writes v with the fewest digits that read back exactly.
// Non-finite values come out as NaN, +Inf and -Inf.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
