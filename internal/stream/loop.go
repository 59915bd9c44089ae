package stream

import (
	"context"
	"time"

	"github.com/san-kum/gravsim/internal/frame"
	"github.com/san-kum/gravsim/internal/input"
	"github.com/san-kum/gravsim/internal/sim"
)

type LoopConfig struct {
	// FPS is the frame rate of the wall-clock loop.
	FPS int
	// ViewW and ViewH are forwarded to the camera descriptor.
	ViewW, ViewH float64
}

// Loop is the only goroutine that touches s. Every frame it applies the
// queued key events, runs one wall-clock frame and broadcasts the result.
// It returns when ctx is done, the hub closes, or a frame fails.
func Loop(ctx context.Context, s *sim.Simulation, hub *Hub, cfg LoopConfig) error {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var pending []KeyEvent
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-hub.Done():
			return nil
		case now := <-ticker.C:
			pending = apply(s, drain(hub, pending))
			if err := s.Frame(now); err != nil {
				return err
			}
			if err := hub.Broadcast(frame.Build(s, cfg.ViewW, cfg.ViewH)); err != nil {
				return err
			}
		}
	}
}

func drain(hub *Hub, events []KeyEvent) []KeyEvent {
	for {
		select {
		case ev := <-hub.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

// apply feeds events to s in order. A release of a key that was pressed
// earlier in the same batch would erase the press before any frame saw it,
// so it and everything after it are returned for the next frame.
func apply(s *sim.Simulation, events []KeyEvent) []KeyEvent {
	pressed := make(map[input.Key]bool)
	for i, ev := range events {
		if ev.Down {
			s.Press(ev.Key)
			pressed[ev.Key] = true
			continue
		}
		if pressed[ev.Key] {
			return append([]KeyEvent(nil), events[i:]...)
		}
		s.Release(ev.Key)
	}
	return nil
}
