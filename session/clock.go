// Package session holds the authoritative per-session game state: the clock,
// the fed-identity registry, meal progress and outcome, and the caretaker who
// arbitrates every feed attempt.
//
// Everything here is single-threaded and advanced by game.Step. Nothing blocks;
// waiting is expressed as timestamps compared against the Clock.
package session

// Clock supplies simulated time. It only moves when Advance is called.
type Clock struct {
	now  float64
	tick uint64
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Advance moves the clock forward by dt seconds and starts a new tick.
func (c *Clock) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.now += dt
	c.tick++
}

// Now returns simulated seconds since the session started.
func (c *Clock) Now() float64 {
	return c.now
}

// Tick returns the number of Advance calls since the session started.
func (c *Clock) Tick() uint64 {
	return c.tick
}

// Reset rewinds the clock to zero.
func (c *Clock) Reset() {
	c.now = 0
	c.tick = 0
}
