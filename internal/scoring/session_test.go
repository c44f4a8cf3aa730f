package scoring

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

// newLiveSession builds an in-progress session with default rules and five
// players per side.
func newLiveSession(t *testing.T) (s *Session, lineupA, lineupB []uuid.UUID) {
	t.Helper()
	s, err := NewSession(uuid.New(), DefaultRules())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	lineupA = testPlayers(5)
	lineupB = testPlayers(5)
	err = s.Begin(map[TeamSide][]uuid.UUID{TeamA: lineupA, TeamB: lineupB})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return s, lineupA, lineupB
}

func TestMadeThreeCreditsPlayerAndTeam(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p1 := lineupA[0]

	snap := s.Snapshot()
	if snap.Quarter != 1 || snap.TimeRemaining != 720 {
		t.Fatalf("fresh session: quarter=%d time=%d, want 1/720", snap.Quarter, snap.TimeRemaining)
	}

	if err := s.RecordShot(p1, TeamA, 3, true); err != nil {
		t.Fatalf("RecordShot: %v", err)
	}

	snap = s.Snapshot()
	if snap.TeamAScore != 3 {
		t.Fatalf("team_a_score = %d, want 3", snap.TeamAScore)
	}
	line := snap.PlayerStats[p1.String()]
	if line.Points != 3 || line.ThreePointersMade != 1 || line.FieldGoalsMade != 1 ||
		line.FieldGoalsAttempted != 1 || line.ThreePointersAttempted != 1 {
		t.Fatalf("stat line = %+v, want a single made three", line)
	}
}

func TestUndoReturnsEverythingToZero(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p1 := lineupA[0]

	if err := s.RecordShot(p1, TeamA, 3, true); err != nil {
		t.Fatal(err)
	}
	undone, err := s.UndoLast(PlayerKey(p1))
	if err != nil || !undone {
		t.Fatalf("UndoLast = (%v, %v), want (true, nil)", undone, err)
	}

	snap := s.Snapshot()
	if snap.TeamAScore != 0 {
		t.Fatalf("team_a_score = %d after undo, want 0", snap.TeamAScore)
	}
	if line := snap.PlayerStats[p1.String()]; line != (StatLine{}) {
		t.Fatalf("stat line = %+v after undo, want all zeros", line)
	}
}

func TestShotUndoRoundTripAllValues(t *testing.T) {
	for _, value := range []int{1, 2, 3} {
		for _, made := range []bool{true, false} {
			s, _, lineupB := newLiveSession(t)
			p := lineupB[0]

			before := s.Snapshot()
			if err := s.RecordShot(p, TeamB, value, made); err != nil {
				t.Fatalf("value=%d made=%v: RecordShot: %v", value, made, err)
			}
			if _, err := s.UndoLast(PlayerKey(p)); err != nil {
				t.Fatalf("value=%d made=%v: UndoLast: %v", value, made, err)
			}
			after := s.Snapshot()
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("value=%d made=%v: undo did not restore the snapshot\nbefore: %+v\nafter:  %+v",
					value, made, before, after)
			}
		}
	}
}

func TestPointsAlwaysDerivedFromSplits(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p := lineupA[1]

	// A mixed bag of makes, misses, and undos
	steps := []func() error{
		func() error { return s.RecordShot(p, TeamA, 2, true) },
		func() error { return s.RecordShot(p, TeamA, 3, false) },
		func() error { return s.RecordShot(p, TeamA, 1, true) },
		func() error { return s.RecordShot(p, TeamA, 3, true) },
		func() error { _, err := s.UndoLast(PlayerKey(p)); return err },
		func() error { return s.RecordShot(p, TeamA, 1, false) },
		func() error { return s.RecordShot(p, TeamA, 2, true) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		line := s.Snapshot().PlayerStats[p.String()]
		want := 3*line.ThreePointersMade + 2*(line.FieldGoalsMade-line.ThreePointersMade) + line.FreeThrowsMade
		if line.Points != want {
			t.Fatalf("step %d: points = %d, want %d (derived)", i, line.Points, want)
		}
		if line.FieldGoalsMade > line.FieldGoalsAttempted || line.ThreePointersMade > line.FieldGoalsMade {
			t.Fatalf("step %d: shooting split invariant violated: %+v", i, line)
		}
	}
}

func TestFoulCountsAgainstTeamAndUndoRollsBack(t *testing.T) {
	s, _, lineupB := newLiveSession(t)
	p := lineupB[0]

	if err := s.RecordStat(p, TeamB, StatFouls, 1); err != nil {
		t.Fatal(err)
	}
	if snap := s.Snapshot(); snap.TeamBFouls != 1 {
		t.Fatalf("team_b_fouls = %d, want 1", snap.TeamBFouls)
	}
	if _, err := s.UndoLast(PlayerKey(p)); err != nil {
		t.Fatal(err)
	}
	if snap := s.Snapshot(); snap.TeamBFouls != 0 {
		t.Fatalf("team_b_fouls = %d after undo, want 0", snap.TeamBFouls)
	}
}

func TestStatDecrementFloorsAtZeroAndUndoesExactly(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p := lineupA[0]

	// Decrementing an empty counter applies nothing...
	if err := s.RecordStat(p, TeamA, StatRebounds, -1); err != nil {
		t.Fatal(err)
	}
	if line := s.Snapshot().PlayerStats[p.String()]; line.Rebounds != 0 {
		t.Fatalf("rebounds = %d, want 0 (floored)", line.Rebounds)
	}
	// ...and undoing that no-op delta must not invent a rebound
	if _, err := s.UndoLast(PlayerKey(p)); err != nil {
		t.Fatal(err)
	}
	if line := s.Snapshot().PlayerStats[p.String()]; line.Rebounds != 0 {
		t.Fatalf("rebounds = %d after undoing a floored decrement, want 0", line.Rebounds)
	}
}

func TestUndoOnEmptyStackIsNoOp(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	before := s.Snapshot()

	undone, err := s.UndoLast(PlayerKey(lineupA[0]))
	if err != nil {
		t.Fatalf("UndoLast: %v", err)
	}
	if undone {
		t.Fatal("UndoLast on an empty stack should report false")
	}
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatal("UndoLast on an empty stack must not change state")
	}
}

func TestTimeoutUseAndQuarterReset(t *testing.T) {
	s, _, _ := newLiveSession(t)

	if err := s.UseTimeout(TeamA); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.TeamATimeouts != 1 {
		t.Fatalf("team_a_timeouts = %d, want 1", snap.TeamATimeouts)
	}

	// A foul, so the quarter transition has something to clear
	p := s.teams[TeamA].roster.Active()[0]
	if err := s.RecordStat(p, TeamA, StatFouls, 1); err != nil {
		t.Fatal(err)
	}

	if err := s.AdvanceQuarter(); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.Quarter != 2 {
		t.Fatalf("quarter = %d, want 2", snap.Quarter)
	}
	if snap.TeamATimeouts != snap.TimeoutsPerQuarter {
		t.Fatalf("team_a_timeouts = %d, want the per-quarter allowance %d", snap.TeamATimeouts, snap.TimeoutsPerQuarter)
	}
	if snap.TeamAFouls != 0 {
		t.Fatalf("team_a_fouls = %d after quarter change, want 0", snap.TeamAFouls)
	}
	if snap.TimeRemaining != 720 || snap.IsRunning {
		t.Fatalf("clock = %d running=%v after quarter change, want 720 paused", snap.TimeRemaining, snap.IsRunning)
	}
}

func TestTimeoutExhaustionAndUndo(t *testing.T) {
	s, _, _ := newLiveSession(t)

	if err := s.UseTimeout(TeamB); err != nil {
		t.Fatal(err)
	}
	if err := s.UseTimeout(TeamB); err != nil {
		t.Fatal(err)
	}
	if err := s.UseTimeout(TeamB); !errors.Is(err, ErrNoTimeoutsLeft) {
		t.Fatalf("third timeout = %v, want ErrNoTimeoutsLeft", err)
	}

	undone, err := s.UndoLast(TimeoutKey(TeamB))
	if err != nil || !undone {
		t.Fatalf("UndoLast(timeout) = (%v, %v), want (true, nil)", undone, err)
	}
	if snap := s.Snapshot(); snap.TeamBTimeouts != 1 {
		t.Fatalf("team_b_timeouts = %d after undo, want 1", snap.TeamBTimeouts)
	}
}

func TestQuarterLimit(t *testing.T) {
	s, _, _ := newLiveSession(t)

	for q := 1; q < 4; q++ {
		if err := s.AdvanceQuarter(); err != nil {
			t.Fatalf("advancing from quarter %d: %v", q, err)
		}
	}
	err := s.AdvanceQuarter()
	if !errors.Is(err, ErrQuarterLimitReached) {
		t.Fatalf("advancing past the final quarter = %v, want ErrQuarterLimitReached", err)
	}
	if snap := s.Snapshot(); snap.Quarter != 4 {
		t.Fatalf("quarter = %d after rejected advance, want 4", snap.Quarter)
	}
}

func TestLineupOverflowLeavesLineupUnchanged(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)

	six := append(append([]uuid.UUID{}, lineupA...), uuid.New())
	err := s.SetLineup(TeamA, six)
	if !errors.Is(err, ErrRosterOverflow) {
		t.Fatalf("SetLineup(6) = %v, want ErrRosterOverflow", err)
	}
	if got := s.Snapshot().TeamAActivePlayers; len(got) != 5 {
		t.Fatalf("lineup size = %d after rejected change, want 5", len(got))
	}
}

func TestBatchSubstitutionRejectedWholesale(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p6, p7 := uuid.New(), uuid.New()

	// First pair is invalid (p6 isn't on the court), so even the valid
	// second pair must not land.
	err := s.SubstituteMany(TeamA, []SubstitutionPair{
		{Out: p6, In: p7},
		{Out: lineupA[0], In: p6},
	})
	if !errors.Is(err, ErrPlayerNotActive) {
		t.Fatalf("SubstituteMany = %v, want ErrPlayerNotActive", err)
	}
	snap := s.Snapshot()
	if len(snap.TeamAActivePlayers) != 5 || snap.TeamAActivePlayers[0] != lineupA[0].String() {
		t.Fatal("rejected batch must leave the lineup untouched")
	}
	if len(snap.Substitutions) != 0 {
		t.Fatal("rejected batch must not reach the substitution feed")
	}
}

func TestSubstitutionFeedIsDisplayOnly(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	bench := uuid.New()

	if err := s.Substitute(TeamA, lineupA[0], bench); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleActive(TeamA, bench); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if len(snap.Substitutions) != 2 {
		t.Fatalf("feed has %d entries, want 2", len(snap.Substitutions))
	}
	// The toggle-out entry has no paired player coming in
	last := snap.Substitutions[1]
	if last.PlayerIn != nil || last.PlayerOut == nil || *last.PlayerOut != bench {
		t.Fatalf("toggle-out entry = %+v, want player_out=%s player_in=nil", last, bench)
	}
}

func TestScoringRequiresActivePlayer(t *testing.T) {
	s, _, _ := newLiveSession(t)
	benched := uuid.New()

	if err := s.RecordShot(benched, TeamA, 2, true); !errors.Is(err, ErrPlayerNotActive) {
		t.Fatalf("shot by benched player = %v, want ErrPlayerNotActive", err)
	}
	if err := s.RecordStat(benched, TeamA, StatAssists, 1); !errors.Is(err, ErrPlayerNotActive) {
		t.Fatalf("stat for benched player = %v, want ErrPlayerNotActive", err)
	}
	if snap := s.Snapshot(); snap.TeamAScore != 0 || len(snap.PlayerStats) != 0 {
		t.Fatal("rejected events must not leave any trace")
	}
}

func TestMutationsRejectedOutsideInProgress(t *testing.T) {
	s, err := NewSession(uuid.New(), DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	p := uuid.New()

	// Still scheduled
	if err := s.RecordShot(p, TeamA, 2, true); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("shot while scheduled = %v, want ErrInvalidGameState", err)
	}
	if err := s.StartClock(); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("clock while scheduled = %v, want ErrInvalidGameState", err)
	}

	// Completed
	live, lineupA, _ := newLiveSession(t)
	if err := live.Complete(); err != nil {
		t.Fatal(err)
	}
	if err := live.RecordShot(lineupA[0], TeamA, 2, true); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("shot after completion = %v, want ErrInvalidGameState", err)
	}
	if err := live.AdvanceQuarter(); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("quarter advance after completion = %v, want ErrInvalidGameState", err)
	}
	if live.Tick() {
		t.Fatal("completed games must not tick")
	}
}

func TestApplyRulesResetsClockAndTimeoutsButNotFouls(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)

	if err := s.RecordStat(lineupA[0], TeamA, StatFouls, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.UseTimeout(TeamA); err != nil {
		t.Fatal(err)
	}

	newRules := Rules{TotalQuarters: 4, MinutesPerQuarter: 10, TimeoutsPerQuarter: 3}
	if err := s.ApplyRules(newRules); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.TimeRemaining != 600 || snap.IsRunning {
		t.Fatalf("clock = %d running=%v after rules change, want 600 paused", snap.TimeRemaining, snap.IsRunning)
	}
	if snap.TeamATimeouts != 3 || snap.TeamBTimeouts != 3 {
		t.Fatalf("timeouts = %d/%d after rules change, want 3/3", snap.TeamATimeouts, snap.TeamBTimeouts)
	}
	if snap.TeamAFouls != 1 {
		t.Fatalf("team_a_fouls = %d after rules change, want 1 (untouched)", snap.TeamAFouls)
	}

	if err := s.ApplyRules(Rules{TotalQuarters: 5, MinutesPerQuarter: 10, TimeoutsPerQuarter: 3}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("off-menu rules = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRestoreReloadsSnapshotAndDropsHistory(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	p := lineupA[0]

	if err := s.RecordShot(p, TeamA, 2, true); err != nil {
		t.Fatal(err)
	}
	saved := s.Snapshot()

	// More scoring after the "save"
	if err := s.RecordShot(p, TeamA, 3, true); err != nil {
		t.Fatal(err)
	}
	if err := s.UseTimeout(TeamA); err != nil {
		t.Fatal(err)
	}

	if err := s.Restore(saved); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, saved) {
		t.Fatalf("restored snapshot differs\ngot:  %+v\nwant: %+v", got, saved)
	}

	// History must be gone: the pre-save shot cannot be undone anymore
	undone, err := s.UndoLast(PlayerKey(p))
	if err != nil {
		t.Fatal(err)
	}
	if undone {
		t.Fatal("restore must clear the undo history")
	}
}

func TestTickSerializedWithScoring(t *testing.T) {
	s, lineupA, _ := newLiveSession(t)
	if err := s.StartClock(); err != nil {
		t.Fatal(err)
	}

	// Hammer ticks and shots concurrently; the race detector plus the final
	// bookkeeping check make sure the session mutex holds up.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.Tick()
		}
	}()
	for i := 0; i < 50; i++ {
		if err := s.RecordShot(lineupA[0], TeamA, 2, true); err != nil {
			t.Errorf("RecordShot: %v", err)
			break
		}
	}
	<-done

	snap := s.Snapshot()
	if snap.TeamAScore != 100 {
		t.Fatalf("team_a_score = %d, want 100", snap.TeamAScore)
	}
	if snap.TimeRemaining != 720-50 {
		t.Fatalf("time_remaining = %d, want %d", snap.TimeRemaining, 720-50)
	}
}
