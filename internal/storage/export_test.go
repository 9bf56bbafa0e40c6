package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/attractors/internal/dynamo"
)

func TestCSVRoundTrip(t *testing.T) {
	tr := sampleTrajectory()

	var buf bytes.Buffer
	if err := WriteCSV(context.Background(), &buf, tr); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	times, states, err := ReadCSV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff(tr.Times, times); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tr.States, states, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad header", "time,x0,x1,x2\n0,1,1,1\n"},
		{"short row", "t,x,y,z\n0,1,1\n"},
		{"not a number", "t,x,y,z\n0,1,one,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadCSV(context.Background(), strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	times, states, err := ReadCSV(context.Background(), strings.NewReader(""))
	if err != nil || len(times) != 0 || len(states) != 0 {
		t.Errorf("empty input: got %v %v %v", times, states, err)
	}
}

func TestExportJSON(t *testing.T) {
	tr := sampleTrajectory()
	meta := RunMetadata{Method: "rk4", TMax: 100, Timestamp: time.Now()}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, tr, meta); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}
	if got.System != "Rössler" || got.Method != "rk4" || got.Points != 4 {
		t.Errorf("unexpected header fields: %+v", got)
	}
	if got.Initial != (dynamo.State{1, 1, 1}) {
		t.Errorf("initial state = %v", got.Initial)
	}
	if !math.IsNaN(float64(got.States[2][0])) || !math.IsInf(float64(got.States[3][1]), -1) {
		t.Errorf("non-finite values did not survive: %v %v", got.States[2], got.States[3])
	}
	if !strings.Contains(buf.String(), `"NaN"`) {
		t.Error("NaN should be written as a string")
	}
}

func TestNewRunID(t *testing.T) {
	ts := time.Unix(0, 1700000000123456789)
	tests := []struct{ system, want string }{
		{"Lorenz", "lorenz_1700000000123456789"},
		{"Rössler", "rossler_1700000000123456789"},
		{"", "run_1700000000123456789"},
	}
	for _, tt := range tests {
		if got := NewRunID(tt.system, ts); got != tt.want {
			t.Errorf("NewRunID(%q) = %q, want %q", tt.system, got, tt.want)
		}
	}
}
