package scanner

import (
	"sync/atomic"
)

// Guard allows a single pass at a time and counts the attempts that found
// a pass still running. Once the count reaches the limit onStuck is called.
type Guard struct {
	limit   int32
	onStuck func(missed int)

	running atomic.Bool
	missed  atomic.Int32
}

// NewGuard creates a guard. A limit of zero disables escalation.
func NewGuard(limit int, onStuck func(missed int)) *Guard {
	return &Guard{limit: int32(limit), onStuck: onStuck}
}

// TryAcquire starts a pass. It returns false if one is already running.
func (g *Guard) TryAcquire() bool {
	if g.running.CompareAndSwap(false, true) {
		g.missed.Store(0)
		return true
	}
	missed := g.missed.Add(1)
	if g.limit > 0 && missed >= g.limit && g.onStuck != nil {
		g.onStuck(int(missed))
	}
	return false
}

func (g *Guard) Release() {
	g.running.Store(false)
}

func (g *Guard) Running() bool {
	return g.running.Load()
}

// Missed is the number of attempts rejected since the running pass started.
func (g *Guard) Missed() int {
	return int(g.missed.Load())
}
