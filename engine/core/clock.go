package core

import "time"

type Clock struct {
	startTime time.Time
	lastTick  time.Time
	total     float64
	delta     float64
	running   bool
}

func NewClock() *Clock {
	return &Clock{}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.lastTick = c.startTime
	c.total = 0
	c.delta = 0
	c.running = true
}

// Tick advances the clock and records the seconds since the previous tick.
// Has no effect on non-started clocks.
func (c *Clock) Tick() {
	if !c.running {
		return
	}
	now := time.Now()
	c.delta = now.Sub(c.lastTick).Seconds()
	c.total = now.Sub(c.startTime).Seconds()
	c.lastTick = now
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.running = false
}

// Total returns the seconds elapsed between Start and the last Tick.
func (c *Clock) Total() float64 {
	return c.total
}

// Delta returns the seconds between the last two ticks.
func (c *Clock) Delta() float64 {
	return c.delta
}
