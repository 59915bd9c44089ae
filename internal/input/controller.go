// Package input tracks which logical keys are held and which changed state
// since the previous tick.
package input

import "sort"

// Key is a logical key identifier such as "w", "left" or "space".
type Key string

// Controller is a double-buffered key state tracker.
//
// Advance must be called exactly once per tick, after every query for that
// tick has been made. Calling it twice in a row without queries in between
// loses the pressed/released edges of the first tick.
type Controller struct {
	current  map[Key]struct{}
	previous map[Key]struct{}
}

func NewController() *Controller {
	return &Controller{
		current:  make(map[Key]struct{}),
		previous: make(map[Key]struct{}),
	}
}

func (c *Controller) Press(k Key) {
	c.current[k] = struct{}{}
}

func (c *Controller) Release(k Key) {
	delete(c.current, k)
}

// IsActive reports whether k is held.
func (c *Controller) IsActive(k Key) bool {
	_, ok := c.current[k]
	return ok
}

// IsPressed reports whether k went down since the last Advance.
func (c *Controller) IsPressed(k Key) bool {
	_, was := c.previous[k]
	return c.IsActive(k) && !was
}

// IsReleased reports whether k went up since the last Advance.
func (c *Controller) IsReleased(k Key) bool {
	_, was := c.previous[k]
	return !c.IsActive(k) && was
}

// AnyActive reports whether at least one of keys is held.
func (c *Controller) AnyActive(keys ...Key) bool {
	for _, k := range keys {
		if c.IsActive(k) {
			return true
		}
	}
	return false
}

// Advance copies the current key set into the previous one.
func (c *Controller) Advance() {
	clear(c.previous)
	for k := range c.current {
		c.previous[k] = struct{}{}
	}
}

// Active returns the held keys in sorted order.
func (c *Controller) Active() []Key {
	keys := make([]Key, 0, len(c.current))
	for k := range c.current {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
