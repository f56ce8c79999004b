package monitor

import (
	"sync"
	"time"
)

// Default chime batching parameters. Empirically chosen; configurable via
// pkg/config rather than hard-coded at call sites.
const (
	DefaultChimeBatchSize = 10
	DefaultChimeCooldown  = time.Second
	DefaultChimeIsolated  = 3 * time.Second
)

// ChimeGate decides when an audible alert should actually fire. A storm of
// changes produces roughly one chime per batch of events; a lone change after
// a quiet period still chimes; no two chimes fire within the cooldown.
type ChimeGate struct {
	mu        sync.Mutex
	pending   int
	lastFired time.Time

	batchSize int
	cooldown  time.Duration
	isolated  time.Duration
}

// NewChimeGate returns a gate with the given parameters; zero or negative
// values fall back to the defaults. The cooldown clock starts at now, so a
// burst right at startup is batched rather than firing immediately.
func NewChimeGate(batchSize int, cooldown, isolated time.Duration) *ChimeGate {
	if batchSize <= 0 {
		batchSize = DefaultChimeBatchSize
	}
	if cooldown <= 0 {
		cooldown = DefaultChimeCooldown
	}
	if isolated <= 0 {
		isolated = DefaultChimeIsolated
	}
	return &ChimeGate{
		lastFired: time.Now(),
		batchSize: batchSize,
		cooldown:  cooldown,
		isolated:  isolated,
	}
}

// Observe registers one filesystem event and reports whether the chime
// should fire now. On fire, the pending count resets and the cooldown clock
// restarts.
func (g *ChimeGate) Observe(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending++
	elapsed := now.Sub(g.lastFired)

	shouldFire := g.pending >= g.batchSize || elapsed > g.isolated
	if shouldFire && elapsed >= g.cooldown {
		g.pending = 0
		g.lastFired = now
		return true
	}
	return false
}

// Reset clears the pending count and restarts the cooldown clock. Called on
// directory change.
func (g *ChimeGate) Reset(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = 0
	g.lastFired = now
}

// Pending returns the current pending count. For tests and the debug log.
func (g *ChimeGate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}
