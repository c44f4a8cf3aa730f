package scoring

import "testing"

func TestClockTickCountsDownWhileRunning(t *testing.T) {
	c := Clock{}
	c.Reset(10)
	c.Start()

	if !c.Running {
		t.Fatal("clock should be running after Start")
	}
	if changed := c.Tick(); !changed {
		t.Fatal("Tick should report a change while running")
	}
	if c.Remaining != 9 {
		t.Fatalf("Remaining = %d, want 9", c.Remaining)
	}
}

func TestClockTickIsNoOpWhilePaused(t *testing.T) {
	c := Clock{}
	c.Reset(10)

	if changed := c.Tick(); changed {
		t.Fatal("Tick should not change a paused clock")
	}
	if c.Remaining != 10 {
		t.Fatalf("Remaining = %d, want 10", c.Remaining)
	}
}

func TestClockAutoPausesAtZero(t *testing.T) {
	c := Clock{}
	c.Reset(1)
	c.Start()

	c.Tick()
	if c.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", c.Remaining)
	}
	if c.Running {
		t.Fatal("clock should pause itself at zero")
	}
	// Expired clocks stay paused even if someone hits start again
	c.Start()
	if c.Running {
		t.Fatal("Start on an expired clock should be a no-op")
	}
	if c.Tick() {
		t.Fatal("Tick on an expired clock should be a no-op")
	}
}

func TestClockResetPauses(t *testing.T) {
	c := Clock{}
	c.Reset(10)
	c.Start()
	c.Reset(600)

	if c.Running {
		t.Fatal("Reset should pause the clock")
	}
	if c.Remaining != 600 {
		t.Fatalf("Remaining = %d, want 600", c.Remaining)
	}
}
