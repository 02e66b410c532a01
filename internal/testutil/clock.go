package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Epoch is the time FixedClock and SteppingClock start at.
var Epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// StubClock is a catalog.Clock that returns a controlled time. With a
// non-zero step each call to Now moves it forward by step, so the start and
// finish of an import get distinct stamps. Safe for concurrent use.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// FixedClock returns a clock that always reports Epoch.
func FixedClock() *StubClock {
	return &StubClock{now: Epoch}
}

// SteppingClock returns a clock that reports Epoch, Epoch+step, Epoch+2*step, ...
func SteppingClock(step time.Duration) *StubClock {
	return &StubClock{now: Epoch, step: step}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// SequentialIDs is an app.IDGenerator returning "op-1", "op-2", ...
type SequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *SequentialIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("op-%d", g.n)
}
