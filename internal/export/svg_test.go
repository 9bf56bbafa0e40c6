package export

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/viz"
)

func TestPhaseSVG(t *testing.T) {
	pts := []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: math.NaN(), Y: 0}, {X: 1, Y: 0}}
	svg := PhaseSVG(pts, 120, 120, "")

	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, `width="120" height="120"`) {
		t.Fatalf("unexpected header:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="`+DefaultStroke+`"`) {
		t.Error("empty stroke should use the default color")
	}
	// the NaN sample splits the path in two
	if got := strings.Count(svg, "M"); got != 2 {
		t.Errorf("expected 2 subpaths, got %d:\n%s", got, svg)
	}
	if !strings.Contains(svg, "M10.0,110.0 L110.0,10.0") {
		t.Errorf("unexpected scaling:\n%s", svg)
	}

	if PhaseSVG(pts[:1], 120, 100, "red") != "" {
		t.Error("a single point should draw nothing")
	}
}

func TestCanvasSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasSVG(c, 10, "#fff")
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d:\n%s", got, svg)
	}
	if !strings.Contains(svg, `cx="5.0" cy="5.0"`) || !strings.Contains(svg, `cx="35.0" cy="35.0"`) {
		t.Errorf("dots misplaced:\n%s", svg)
	}
	if CanvasSVG(nil, 10, "") != "" {
		t.Error("nil canvas should draw nothing")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if err := WriteSVG(&buf, "<svg/>"); err != nil || buf.String() != "<svg/>" {
		t.Errorf("WriteSVG wrote %q, err %v", buf.String(), err)
	}
}
