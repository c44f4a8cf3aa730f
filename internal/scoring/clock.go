package scoring

// Clock tracks the time remaining in the current quarter. It only counts
// down while running, one second per Tick, and pauses itself when it hits
// zero. There is no buzzer logic here — reaching zero just stops the clock;
// advancing to the next quarter is the scorekeeper's call.
//
// Clock is not safe for concurrent use on its own. The Session that owns it
// holds a lock around every clock operation, which is what keeps the 1 Hz
// tick loop and user-initiated actions from interleaving.
type Clock struct {
	// Remaining is the number of seconds left in the quarter.
	Remaining int
	// Running reports whether Tick currently decrements the clock.
	Running bool
}

// Start resumes the countdown. Starting an expired clock is a no-op: the
// quarter is over and the clock must be Reset (by a quarter change or a rules
// change) before it can run again.
func (c *Clock) Start() {
	if c.Remaining > 0 {
		c.Running = true
	}
}

// Pause stops the countdown without touching the remaining time.
func (c *Clock) Pause() {
	c.Running = false
}

// Tick advances the clock by one second. It reports whether the remaining
// time actually changed, so callers know whether there is anything new to
// persist or broadcast. When the clock reaches zero it pauses itself.
func (c *Clock) Tick() bool {
	if !c.Running || c.Remaining <= 0 {
		return false
	}
	c.Remaining--
	if c.Remaining == 0 {
		c.Running = false
	}
	return true
}

// Reset sets the clock to the given number of seconds and pauses it.
func (c *Clock) Reset(toSeconds int) {
	c.Remaining = toSeconds
	c.Running = false
}
