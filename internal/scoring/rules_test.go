package scoring

import (
	"errors"
	"testing"
)

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name  string
		rules Rules
		ok    bool
	}{
		{"defaults", DefaultRules(), true},
		{"short format", Rules{TotalQuarters: 2, MinutesPerQuarter: 5, TimeoutsPerQuarter: 1}, true},
		{"long format", Rules{TotalQuarters: 6, MinutesPerQuarter: 20, TimeoutsPerQuarter: 4}, true},
		{"odd quarter count", Rules{TotalQuarters: 3, MinutesPerQuarter: 12, TimeoutsPerQuarter: 2}, false},
		{"unlisted minutes", Rules{TotalQuarters: 4, MinutesPerQuarter: 11, TimeoutsPerQuarter: 2}, false},
		{"zero timeouts", Rules{TotalQuarters: 4, MinutesPerQuarter: 12, TimeoutsPerQuarter: 0}, false},
		{"zero everything", Rules{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Fatalf("Validate() = %v, want ErrInvalidConfiguration", err)
				}
			}
		})
	}
}

func TestRulesQuarterSeconds(t *testing.T) {
	r := Rules{TotalQuarters: 4, MinutesPerQuarter: 12, TimeoutsPerQuarter: 2}
	if got := r.QuarterSeconds(); got != 720 {
		t.Fatalf("QuarterSeconds() = %d, want 720", got)
	}
}
