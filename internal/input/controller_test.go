package input

import (
	"reflect"
	"testing"
)

func TestPressLifecycle(t *testing.T) {
	c := NewController()
	k := Key("w")

	c.Press(k)
	if !c.IsActive(k) || !c.IsPressed(k) || c.IsReleased(k) {
		t.Fatalf("after press: active=%v pressed=%v released=%v", c.IsActive(k), c.IsPressed(k), c.IsReleased(k))
	}

	c.Advance()
	if !c.IsActive(k) {
		t.Error("key should stay active after advance")
	}
	if c.IsPressed(k) {
		t.Error("pressed edge should clear after advance")
	}

	c.Release(k)
	if !c.IsReleased(k) {
		t.Error("expected released edge before next advance")
	}
	if c.IsActive(k) {
		t.Error("released key should not be active")
	}

	c.Advance()
	if c.IsReleased(k) {
		t.Error("released edge should clear after advance")
	}
}

func TestPressAndReleaseWithinTick(t *testing.T) {
	c := NewController()
	c.Press("q")
	c.Release("q")

	if c.IsActive("q") || c.IsPressed("q") || c.IsReleased("q") {
		t.Error("a key pressed and released between advances leaves no trace")
	}
}

func TestDoubleAdvanceLosesEdges(t *testing.T) {
	c := NewController()
	c.Press("e")
	c.Advance()
	c.Release("e")
	c.Advance()

	if c.IsReleased("e") {
		t.Error("second advance should have consumed the release edge")
	}
}

func TestAnyActive(t *testing.T) {
	tests := []struct {
		name    string
		pressed []Key
		query   []Key
		want    bool
	}{
		{"none held", nil, []Key{"w", "a"}, false},
		{"one held", []Key{"a"}, []Key{"w", "a", "s", "d"}, true},
		{"other held", []Key{"space"}, []Key{"w", "a"}, false},
		{"empty query", []Key{"w"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			for _, k := range tt.pressed {
				c.Press(k)
			}
			if got := c.AnyActive(tt.query...); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestActiveSorted(t *testing.T) {
	c := NewController()
	c.Press("w")
	c.Press("a")
	c.Press("left")

	want := []Key{"a", "left", "w"}
	if got := c.Active(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
