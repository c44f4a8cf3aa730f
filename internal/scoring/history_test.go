package scoring

import (
	"testing"

	"github.com/google/uuid"
)

func TestHistoryStackDisciplinePerKey(t *testing.T) {
	h := NewHistory()
	p1, p2 := PlayerKey(uuid.New()), PlayerKey(uuid.New())

	h.Push(p1, ActionRecord{Kind: ActionStat, Stat: StatAssists, Delta: 1})
	h.Push(p1, ActionRecord{Kind: ActionShot, ShotValue: 3, Made: true})
	h.Push(p2, ActionRecord{Kind: ActionStat, Stat: StatSteals, Delta: 1})

	// Most recent record for p1 comes off first; p2's stack is untouched
	rec, ok := h.PopLast(p1)
	if !ok || rec.Kind != ActionShot {
		t.Fatalf("PopLast(p1) = (%+v, %v), want the shot record", rec, ok)
	}
	if !h.CanUndo(p1) || !h.CanUndo(p2) {
		t.Fatal("both keys should still have records")
	}

	rec, ok = h.PopLast(p1)
	if !ok || rec.Stat != StatAssists {
		t.Fatalf("PopLast(p1) = (%+v, %v), want the assist record", rec, ok)
	}
	if h.CanUndo(p1) {
		t.Fatal("p1's stack should be empty")
	}
}

func TestHistoryPopEmptyIsNotAnError(t *testing.T) {
	h := NewHistory()
	if _, ok := h.PopLast("nothing-here"); ok {
		t.Fatal("PopLast on an empty stack should report false")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	key := TimeoutKey(TeamA)
	h.Push(key, ActionRecord{Kind: ActionTimeout, Team: TeamA})
	h.Clear()
	if h.CanUndo(key) {
		t.Fatal("Clear should discard every stack")
	}
}

func TestTimeoutKeyNames(t *testing.T) {
	if got := TimeoutKey(TeamA); got != "team_a_timeout" {
		t.Fatalf("TimeoutKey(TeamA) = %q, want team_a_timeout", got)
	}
	if got := TimeoutKey(TeamB); got != "team_b_timeout" {
		t.Fatalf("TimeoutKey(TeamB) = %q, want team_b_timeout", got)
	}
}
