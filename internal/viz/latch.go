package viz

import (
	"sort"
	"time"

	"github.com/san-kum/gravsim/internal/input"
)

// DefaultHold must outlast the terminal's key-repeat delay, otherwise a held
// key is released and pressed again between repeats.
const DefaultHold = 600 * time.Millisecond

// Latch synthesizes key releases for terminals, which only report presses.
// A key counts as held until no repeat of it has arrived for Hold.
type Latch struct {
	Hold time.Duration

	seen map[input.Key]time.Time
}

func NewLatch(hold time.Duration) *Latch {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Latch{Hold: hold, seen: make(map[input.Key]time.Time)}
}

// Observe records a key event at now and reports whether it starts a new
// press. Repeats of a held key only extend the hold.
func (l *Latch) Observe(k input.Key, now time.Time) bool {
	_, held := l.seen[k]
	l.seen[k] = now
	return !held
}

// Expire returns, sorted, the keys whose hold ran out by now and forgets
// them.
func (l *Latch) Expire(now time.Time) []input.Key {
	var out []input.Key
	for k, last := range l.seen {
		if now.Sub(last) >= l.Hold {
			out = append(out, k)
			delete(l.seen, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Held returns the latched keys, sorted.
func (l *Latch) Held() []input.Key {
	out := make([]input.Key, 0, len(l.seen))
	for k := range l.seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Flush releases every latched key.
func (l *Latch) Flush() []input.Key {
	out := l.Held()
	clear(l.seen)
	return out
}
