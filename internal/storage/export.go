package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/attractors/internal/dynamo"
)

var csvHeader = []string{"t", "x", "y", "z"}

// WriteCSV writes the trajectory as t,x,y,z rows under a header line.
func WriteCSV(ctx context.Context, w io.Writer, tr *dynamo.Trajectory) error {
	if len(tr.Times) != len(tr.States) {
		return fmt.Errorf("trajectory has %d times for %d states", len(tr.Times), len(tr.States))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, 4)
	for i := range tr.States {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s := tr.States[i]
		row[0] = FormatFloat(tr.Times[i])
		row[1] = FormatFloat(s[0])
		row[2] = FormatFloat(s[1])
		row[3] = FormatFloat(s[2])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(ctx context.Context, r io.Reader) ([]float64, []dynamo.State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []float64{}, []dynamo.State{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i, name := range csvHeader {
		if strings.TrimSpace(header[i]) != name {
			return nil, nil, fmt.Errorf("unexpected header %v", header)
		}
	}

	var (
		times  []float64
		states []dynamo.State
	)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		var vals [4]float64
		for j := range vals {
			v, err := ParseFloat(record[j])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d column %s: %w", line, csvHeader[j], err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		states = append(states, dynamo.State{vals[1], vals[2], vals[3]})
	}
	return times, states, nil
}

// Number is a float that survives JSON encoding when it is not finite.
// NaN and the infinities are written as strings.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(strconv.Quote(FormatFloat(v))), nil
	}
	return []byte(FormatFloat(v)), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseFloat(s)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

type ExportData struct {
	System  string             `json:"system"`
	Method  string             `json:"method,omitempty"`
	Params  map[string]float64 `json:"params"`
	TMax    float64            `json:"t_max,omitempty"`
	Dt      float64            `json:"dt"`
	Initial dynamo.State       `json:"initial_state"`
	Points  int                `json:"points"`
	Times   []float64          `json:"times"`
	States  [][3]Number        `json:"states"`
}

func NewExportData(tr *dynamo.Trajectory, meta RunMetadata) ExportData {
	data := ExportData{
		System:  tr.System,
		Method:  meta.Method,
		Params:  tr.Params.Clone(),
		TMax:    meta.TMax,
		Dt:      tr.Dt,
		Initial: meta.Initial,
		Points:  tr.Len(),
		Times:   tr.Times,
		States:  make([][3]Number, len(tr.States)),
	}
	if tr.Len() > 0 && data.Initial == (dynamo.State{}) {
		data.Initial = tr.States[0]
	}
	for i, s := range tr.States {
		data.States[i] = [3]Number{Number(s[0]), Number(s[1]), Number(s[2])}
	}
	return data
}

// ExportJSON writes the trajectory and its run settings as indented JSON.
func ExportJSON(w io.Writer, tr *dynamo.Trajectory, meta RunMetadata) error {
	return encodeJSON(w, NewExportData(tr, meta))
}
