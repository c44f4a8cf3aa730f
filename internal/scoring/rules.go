package scoring

import "fmt"

// Rules holds the configurable game format: how many quarters are played, how
// long each one runs, and how many timeouts each team gets per quarter.
// League admins can change these before or during a game from the scoresheet
// screen, so the allowed values are a fixed menu rather than free integers —
// anything outside the menu is rejected, never clamped.
type Rules struct {
	TotalQuarters      int `json:"total_quarters"`
	MinutesPerQuarter  int `json:"minutes_per_quarter"`
	TimeoutsPerQuarter int `json:"timeouts_per_quarter"`
}

// The recognized option sets. These mirror the choices offered by the
// scoresheet UI; keeping them here means the engine rejects bad values even
// if a client bypasses the dropdowns.
var (
	allowedQuarters = []int{2, 4, 6}
	allowedMinutes  = []int{5, 8, 10, 12, 15, 20}
	allowedTimeouts = []int{1, 2, 3, 4}
)

// DefaultRules returns the standard league format: four 12-minute quarters
// with two timeouts per team per quarter.
func DefaultRules() Rules {
	return Rules{TotalQuarters: 4, MinutesPerQuarter: 12, TimeoutsPerQuarter: 2}
}

// QuarterSeconds returns the length of one quarter in clock seconds.
func (r Rules) QuarterSeconds() int {
	return r.MinutesPerQuarter * 60
}

// Validate checks every field against its option set. It returns a wrapped
// ErrInvalidConfiguration naming the offending field so handlers can both
// match with errors.Is and surface a readable message.
func (r Rules) Validate() error {
	if !contains(allowedQuarters, r.TotalQuarters) {
		return fmt.Errorf("%w: total_quarters must be one of %v, got %d",
			ErrInvalidConfiguration, allowedQuarters, r.TotalQuarters)
	}
	if !contains(allowedMinutes, r.MinutesPerQuarter) {
		return fmt.Errorf("%w: minutes_per_quarter must be one of %v, got %d",
			ErrInvalidConfiguration, allowedMinutes, r.MinutesPerQuarter)
	}
	if !contains(allowedTimeouts, r.TimeoutsPerQuarter) {
		return fmt.Errorf("%w: timeouts_per_quarter must be one of %v, got %d",
			ErrInvalidConfiguration, allowedTimeouts, r.TimeoutsPerQuarter)
	}
	return nil
}

func contains(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
