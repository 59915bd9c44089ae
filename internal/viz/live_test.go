package viz

import (
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/config"
)

func testModel(t *testing.T, bodies int) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Bodies = bodies
	m, err := NewModel(cfg, Options{Hold: 100 * time.Millisecond, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bodies = -1
	if _, err := NewModel(cfg, Options{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestSpaceTogglesPauseOnce(t *testing.T) {
	m := testModel(t, 3)
	t0 := time.Unix(100, 0)
	m.now = func() time.Time { return t0 }

	m = send(t, m, TickMsg(t0))
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, TickMsg(t0.Add(16*time.Millisecond)))
	if !m.Simulation().Paused() {
		t.Fatal("space should pause")
	}
	if m.Simulation().Tick() != 0 {
		t.Errorf("paused frame should not step, tick=%d", m.Simulation().Tick())
	}

	// Auto-repeat of a held key must not toggle again.
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, TickMsg(t0.Add(32*time.Millisecond)))
	if !m.Simulation().Paused() {
		t.Error("repeat should not unpause")
	}

	m = send(t, m, TickMsg(t0.Add(200*time.Millisecond)))
	if m.Simulation().Input.IsActive("space") {
		t.Error("latch should release space after the hold")
	}
}

func TestHeldPanKeyMovesCamera(t *testing.T) {
	m := testModel(t, 3)
	t0 := time.Unix(100, 0)
	m.now = func() time.Time { return t0 }

	m = send(t, m, TickMsg(t0))
	m = send(t, m, runes("d"))
	m = send(t, m, TickMsg(t0.Add(50*time.Millisecond)))

	v := m.Simulation().View
	if v.Pan.X <= 0 {
		t.Errorf("expected pan to the right, got %v", v.Pan)
	}
	if m.Simulation().Tick() != 1 {
		t.Errorf("expected one step, got %d", m.Simulation().Tick())
	}
}

func TestViewKeys(t *testing.T) {
	m := testModel(t, 3)
	amp := m.Simulation().Field().Amplifier

	m = send(t, m, runes("+"))
	if got := m.Simulation().Field().Amplifier; math.Abs(got-amp*amplifierStep) > 1e-12 {
		t.Errorf("expected amplifier %f, got %f", amp*amplifierStep, got)
	}
	m = send(t, m, runes("-"))
	if got := m.Simulation().Field().Amplifier; math.Abs(got-amp) > 1e-12 {
		t.Errorf("expected amplifier back to %f, got %f", amp, got)
	}

	m = send(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("? should show help")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
}

func TestResetRespawns(t *testing.T) {
	m := testModel(t, 3)
	t0 := time.Unix(100, 0)
	m = send(t, m, TickMsg(t0))
	m = send(t, m, TickMsg(t0.Add(16*time.Millisecond)))
	epoch := m.Simulation().Engine().Epoch()

	m = send(t, m, runes("r"))
	if m.Simulation().Tick() != 0 {
		t.Errorf("reset should rewind the tick, got %d", m.Simulation().Tick())
	}
	if m.Simulation().Engine().Epoch() == epoch {
		t.Error("reset should build a new engine")
	}
}

func TestWindowSizeFitsWorld(t *testing.T) {
	m := testModel(t, 3)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.canvas.Width != 120-statsWidth-4 || m.canvas.Height != 39 {
		t.Fatalf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	cw, ch := m.canvas.Dots()
	want := math.Min(float64(cw), float64(ch)) / (2 * m.cfg.WorldRadius)
	if got := m.Simulation().View.Zoom; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected zoom %f, got %f", want, got)
	}

	m.Simulation().View.Zoom = 7
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.Simulation().View.Zoom != 7 {
		t.Error("later resizes should keep the user's zoom")
	}
}

func TestConfigMsgReplacesSimulation(t *testing.T) {
	m := testModel(t, 3)
	cfg := config.DefaultConfig()
	cfg.Bodies = 7
	m = send(t, m, ConfigMsg{Config: cfg})
	if n := len(m.Simulation().Bodies()); n != 7 {
		t.Errorf("expected 7 bodies after reload, got %d", n)
	}
}

func TestFrameDrawsBodies(t *testing.T) {
	m := testModel(t, 20)
	t0 := time.Unix(100, 0)
	m = send(t, m, TickMsg(t0))

	lit := false
	for _, row := range m.canvas.Grid {
		for _, r := range row {
			if r != blank {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("expected bodies on the canvas")
	}

	m.Simulation().View.Wireframe = true
	m = send(t, m, TickMsg(t0.Add(16*time.Millisecond)))
	if !strings.Contains(m.View(), "wireframe") {
		t.Error("stats should report wireframe mode")
	}
}
