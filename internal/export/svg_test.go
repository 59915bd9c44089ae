package export

import (
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/frame"
)

func testDescriptor(wireframe bool) *frame.Descriptor {
	return &frame.Descriptor{
		Wireframe: wireframe,
		Texture:   "cookie",
		Indices:   frame.Indices(wireframe),
		Camera:    frame.Camera{Zoom: 10},
		Bodies: []frame.Transform{
			{X: 0, Y: 0, Scale: 2},
			{X: 1, Y: 1, Scale: 1},
		},
		Attractors: []frame.Attractor{{X: -1, Y: 0, Mass: 100}},
	}
}

func TestFrameSVGFilled(t *testing.T) {
	svg := FrameSVG(testDescriptor(false), 100, 100)
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 2 bodies and 1 attractor, got %d circles", got)
	}
	// Body at the origin with zoom 10 and diameter 2 lands centred with r=10.
	if !strings.Contains(svg, `cx="50.0" cy="50.0" r="10.0"`) {
		t.Error("origin body misplaced")
	}
	// World y up is screen y down.
	if !strings.Contains(svg, `cx="60.0" cy="40.0"`) {
		t.Error("second body misplaced")
	}
	if !strings.Contains(svg, "#c8904a") {
		t.Error("expected cookie fill")
	}
}

func TestFrameSVGWireframe(t *testing.T) {
	svg := FrameSVG(testDescriptor(true), 100, 100)
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected one outline per body, got %d", got)
	}
	if !strings.Contains(svg, "M40.0,60.0 L60.0,60.0 L60.0,40.0 L40.0,40.0 L40.0,60.0") {
		t.Errorf("unexpected outline in\n%s", svg)
	}
}

func TestFrameSVGNil(t *testing.T) {
	if FrameSVG(nil, 10, 10) != "" {
		t.Error("nil descriptor should render nothing")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{0}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("single point should render nothing")
	}
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{1, 3, 2}, 120, 60, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected series svg:\n%s", svg)
	}
}
