package viz

import (
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/input"
)

func TestLatchObserve(t *testing.T) {
	l := NewLatch(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	if !l.Observe("w", t0) {
		t.Error("first event should start a press")
	}
	if l.Observe("w", t0.Add(30*time.Millisecond)) {
		t.Error("repeat should not start another press")
	}
	if !l.Observe("a", t0.Add(30*time.Millisecond)) {
		t.Error("a different key should start its own press")
	}
}

func TestLatchExpire(t *testing.T) {
	l := NewLatch(100 * time.Millisecond)
	t0 := time.Unix(0, 0)
	l.Observe("w", t0)
	l.Observe("a", t0)
	l.Observe("w", t0.Add(80*time.Millisecond))

	if got := l.Expire(t0.Add(90 * time.Millisecond)); len(got) != 0 {
		t.Errorf("nothing should expire yet, got %v", got)
	}
	if got := l.Expire(t0.Add(100 * time.Millisecond)); !reflect.DeepEqual(got, []input.Key{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
	if got := l.Expire(t0.Add(180 * time.Millisecond)); !reflect.DeepEqual(got, []input.Key{"w"}) {
		t.Errorf("repeat should extend the hold, got %v", got)
	}
	if !l.Observe("w", t0.Add(200*time.Millisecond)) {
		t.Error("an expired key should press again")
	}
}

func TestLatchFlush(t *testing.T) {
	l := NewLatch(0)
	if l.Hold != DefaultHold {
		t.Errorf("expected default hold, got %v", l.Hold)
	}
	now := time.Now()
	l.Observe("d", now)
	l.Observe("b", now)

	if got := l.Flush(); !reflect.DeepEqual(got, []input.Key{"b", "d"}) {
		t.Errorf("expected sorted [b d], got %v", got)
	}
	if len(l.Held()) != 0 {
		t.Error("flush should forget all keys")
	}
}
