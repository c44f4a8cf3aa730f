package scoring

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a game session.
type Status string

const (
	StatusScheduled  Status = "scheduled"   // created, scoring hasn't started
	StatusInProgress Status = "in_progress" // live — the only state that accepts scoring
	StatusCompleted  Status = "completed"   // scoring finalized, read-only
	StatusCancelled  Status = "cancelled"   // abandoned, read-only
)

// maxSubFeed bounds the recent-substitutions feed carried in snapshots.
const maxSubFeed = 20

// Session is the aggregate for one live game: the clock, quarter and
// timeout bookkeeping, both lineups, every player's stat line, and the undo
// history. It is the single writer for all of that state — every exported
// method takes the session mutex, which serializes scorekeeper actions
// against the 1 Hz clock tick.
//
// Sessions for different games share nothing and can be driven concurrently.
type Session struct {
	mu sync.Mutex

	gameID  uuid.UUID
	status  Status
	rules   Rules
	quarter int
	clock   Clock

	teams   map[TeamSide]*teamState
	stats   map[uuid.UUID]*StatLine
	history *History
	subs    []SubstitutionEvent
}

// teamState is one side's derived totals plus its on-court lineup. Score
// and fouls are sums of individual player events; timeouts count down from
// the per-quarter allowance.
type teamState struct {
	score    int
	fouls    int
	timeouts int
	roster   Roster
}

// NewSession creates a scheduled session for the given game. The rules are
// validated here so a session can never exist with an unrecognized format.
func NewSession(gameID uuid.UUID, rules Rules) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		gameID:  gameID,
		status:  StatusScheduled,
		rules:   rules,
		quarter: 1,
		teams: map[TeamSide]*teamState{
			TeamA: {timeouts: rules.TimeoutsPerQuarter},
			TeamB: {timeouts: rules.TimeoutsPerQuarter},
		},
		stats:   make(map[uuid.UUID]*StatLine),
		history: NewHistory(),
	}
	s.clock.Reset(rules.QuarterSeconds())
	return s, nil
}

// GameID returns the identifier of the game this session scores.
func (s *Session) GameID() uuid.UUID {
	return s.gameID
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// requireLive is the gate every mutating operation passes through: anything
// outside in_progress is rejected before any state is touched.
func (s *Session) requireLive() error {
	if s.status != StatusInProgress {
		return fmt.Errorf("%w: game is %s", ErrInvalidGameState, s.status)
	}
	return nil
}

// Begin moves the session from scheduled to in progress and installs the
// starting lineups. Both lineups are validated before either is applied.
func (s *Session) Begin(lineups map[TeamSide][]uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusScheduled {
		return fmt.Errorf("%w: game is %s", ErrInvalidGameState, s.status)
	}
	// Rehearse both lineups first so a bad second lineup can't leave the
	// first one installed.
	for side, ids := range lineups {
		if !side.Valid() {
			return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
		}
		var scratch Roster
		if err := scratch.SetActive(ids); err != nil {
			return err
		}
	}
	for side, ids := range lineups {
		_ = s.teams[side].roster.SetActive(ids)
	}
	s.status = StatusInProgress
	return nil
}

// Complete finalizes a live game. No mutation is accepted afterwards.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.clock.Pause()
	s.status = StatusCompleted
	return nil
}

// Cancel abandons a scheduled or live game. Terminal, like Complete.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusScheduled && s.status != StatusInProgress {
		return fmt.Errorf("%w: game is %s", ErrInvalidGameState, s.status)
	}
	s.clock.Pause()
	s.status = StatusCancelled
	return nil
}

// --- Clock operations ---

// StartClock resumes the game clock.
func (s *Session) StartClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.clock.Start()
	return nil
}

// PauseClock stops the game clock.
func (s *Session) PauseClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.clock.Pause()
	return nil
}

// ResetClock sets the clock back to a full quarter and pauses it.
func (s *Session) ResetClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.clock.Reset(s.rules.QuarterSeconds())
	return nil
}

// Tick advances the clock by one second if the game is live and the clock
// is running. It reports whether anything changed. The Manager calls this
// once per wall-clock second; because it takes the same mutex as every other
// operation, a tick can never interleave with a scoring action.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress {
		return false
	}
	return s.clock.Tick()
}

// --- Quarter and rules ---

// AdvanceQuarter moves to the next quarter: fresh clock (paused), fouls
// cleared, timeouts restored to the per-quarter allowance. Fails with
// ErrQuarterLimitReached in the final quarter.
func (s *Session) AdvanceQuarter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if s.quarter >= s.rules.TotalQuarters {
		return ErrQuarterLimitReached
	}
	s.quarter++
	s.clock.Reset(s.rules.QuarterSeconds())
	for _, t := range s.teams {
		t.fouls = 0
		t.timeouts = s.rules.TimeoutsPerQuarter
	}
	return nil
}

// ApplyRules replaces the game format mid-game (or before it starts). The
// clock is reset to the new quarter length and both teams' timeouts to the
// new allowance. Fouls already accrued this quarter are left alone — the
// upstream product behavior for that interaction is undefined, and clearing
// them here would silently forgive real fouls.
func (s *Session) ApplyRules(r Rules) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusScheduled && s.status != StatusInProgress {
		return fmt.Errorf("%w: game is %s", ErrInvalidGameState, s.status)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	s.rules = r
	s.clock.Reset(r.QuarterSeconds())
	for _, t := range s.teams {
		t.timeouts = r.TimeoutsPerQuarter
	}
	return nil
}

// --- Timeouts ---

// UseTimeout burns one of the side's timeouts for this quarter and records
// it so the scorekeeper can undo a mis-tap.
func (s *Session) UseTimeout(side TeamSide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	t := s.teams[side]
	if t.timeouts <= 0 {
		return ErrNoTimeoutsLeft
	}
	t.timeouts--
	s.history.Push(TimeoutKey(side), ActionRecord{
		Kind:         ActionTimeout,
		Team:         side,
		Quarter:      s.quarter,
		ClockAtEvent: s.clock.Remaining,
	})
	return nil
}

// --- Scoring ---

// RecordShot credits a shot attempt to a player. The player must be on the
// court for the given side. A made shot adds its value to the team score;
// made or missed, the attempt lands on the player's line and a reversal
// record is pushed onto their undo stack.
func (s *Session) RecordShot(playerID uuid.UUID, side TeamSide, value int, made bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	if value < 1 || value > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidShotValue, value)
	}
	t := s.teams[side]
	if !t.roster.IsActive(playerID) {
		return fmt.Errorf("%w: %s", ErrPlayerNotActive, playerID)
	}

	line := s.lineFor(playerID)
	line.applyShot(value, made)
	if made {
		t.score += value
	}
	s.history.Push(PlayerKey(playerID), ActionRecord{
		Kind:         ActionShot,
		PlayerID:     playerID,
		Team:         side,
		ShotValue:    value,
		Made:         made,
		Quarter:      s.quarter,
		ClockAtEvent: s.clock.Remaining,
	})
	return nil
}

// RecordStat adjusts one of a player's simple counters by delta (usually
// +1, but correction flows send negative deltas too). The counter floors at
// zero; the undo record stores the delta that actually landed. A positive
// foul delta also counts against the player's team.
func (s *Session) RecordStat(playerID uuid.UUID, side TeamSide, name StatName, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStat, name)
	}
	t := s.teams[side]
	if !t.roster.IsActive(playerID) {
		return fmt.Errorf("%w: %s", ErrPlayerNotActive, playerID)
	}

	line := s.lineFor(playerID)
	applied := line.applyStat(name, delta)
	if name == StatFouls && applied > 0 {
		t.fouls += applied
	}
	s.history.Push(PlayerKey(playerID), ActionRecord{
		Kind:         ActionStat,
		PlayerID:     playerID,
		Team:         side,
		Stat:         name,
		Delta:        applied,
		Quarter:      s.quarter,
		ClockAtEvent: s.clock.Remaining,
	})
	return nil
}

// lineFor returns the player's stat line, creating an empty one on first
// touch. Lines are created lazily so bench players who never see the floor
// don't clutter the snapshot.
func (s *Session) lineFor(playerID uuid.UUID) *StatLine {
	line, ok := s.stats[playerID]
	if !ok {
		line = &StatLine{}
		s.stats[playerID] = line
	}
	return line
}

// --- Lineups and substitutions ---

// SetLineup replaces a side's on-court lineup wholesale.
func (s *Session) SetLineup(side TeamSide, playerIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	return s.teams[side].roster.SetActive(playerIDs)
}

// Substitute swaps one player out for another and logs it to the feed.
func (s *Session) Substitute(side TeamSide, out, in uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	if err := s.teams[side].roster.SubstituteOne(out, in); err != nil {
		return err
	}
	s.logSub(side, &out, &in)
	return nil
}

// SubstituteMany applies a batch of swaps atomically: either every pair
// lands or none do. Each pair is validated against the lineup as left by
// the previous pair, so chained swaps within one batch are allowed.
func (s *Session) SubstituteMany(side TeamSide, pairs []SubstitutionPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	if err := s.teams[side].roster.SubstituteMany(pairs); err != nil {
		return err
	}
	for i := range pairs {
		s.logSub(side, &pairs[i].Out, &pairs[i].In)
	}
	return nil
}

// ToggleActive benches an on-court player or brings a benched player in,
// logging a one-sided substitution either way.
func (s *Session) ToggleActive(side TeamSide, playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("%w: unknown team side %q", ErrInvalidGameState, side)
	}
	wentIn, err := s.teams[side].roster.ToggleActive(playerID)
	if err != nil {
		return err
	}
	if wentIn {
		s.logSub(side, nil, &playerID)
	} else {
		s.logSub(side, &playerID, nil)
	}
	return nil
}

// logSub appends to the display-only substitution feed, trimming it to the
// most recent entries. The feed is never consulted to rebuild lineups.
func (s *Session) logSub(side TeamSide, out, in *uuid.UUID) {
	s.subs = append(s.subs, SubstitutionEvent{
		Team:      side,
		Quarter:   s.quarter,
		ClockTime: s.clock.Remaining,
		PlayerOut: out,
		PlayerIn:  in,
	})
	if len(s.subs) > maxSubFeed {
		s.subs = s.subs[len(s.subs)-maxSubFeed:]
	}
}

// --- Undo ---

// CanUndo reports whether the key (a player, or a team timeout slot) has an
// action available to undo.
func (s *Session) CanUndo(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo(key)
}

// UndoLast reverses the most recent action recorded under the key and
// reports whether anything was undone. An empty stack is a quiet no-op, not
// an error — the UI is expected to disable the control via CanUndo, but a
// stale click must not blow up.
func (s *Session) UndoLast(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return false, err
	}
	rec, ok := s.history.PopLast(key)
	if !ok {
		return false, nil
	}
	s.reverse(rec)
	return true, nil
}

// reverse applies the exact algebraic inverse of a recorded action. Team
// totals floor at zero as a guard, matching the forward operations.
func (s *Session) reverse(rec ActionRecord) {
	t := s.teams[rec.Team]
	switch rec.Kind {
	case ActionShot:
		if line, ok := s.stats[rec.PlayerID]; ok {
			line.reverseShot(rec.ShotValue, rec.Made)
		}
		if rec.Made {
			t.score = floorZero(t.score - rec.ShotValue)
		}
	case ActionStat:
		if line, ok := s.stats[rec.PlayerID]; ok {
			line.applyStat(rec.Stat, -rec.Delta)
		}
		if rec.Stat == StatFouls && rec.Delta > 0 {
			t.fouls = floorZero(t.fouls - rec.Delta)
		}
	case ActionTimeout:
		if t.timeouts < s.rules.TimeoutsPerQuarter {
			t.timeouts++
		}
	}
}

// --- Snapshot and restore ---

// Snapshot flattens the session into the wire format. Safe to call in any
// state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]StatLine, len(s.stats))
	for id, line := range s.stats {
		stats[id.String()] = *line
	}
	subs := make([]SubstitutionEvent, len(s.subs))
	copy(subs, s.subs)

	return Snapshot{
		GameID:             s.gameID.String(),
		Status:             string(s.status),
		Quarter:            s.quarter,
		TimeRemaining:      s.clock.Remaining,
		IsRunning:          s.clock.Running,
		TotalQuarters:      s.rules.TotalQuarters,
		MinutesPerQuarter:  s.rules.MinutesPerQuarter,
		TimeoutsPerQuarter: s.rules.TimeoutsPerQuarter,
		TeamAScore:         s.teams[TeamA].score,
		TeamBScore:         s.teams[TeamB].score,
		TeamAFouls:         s.teams[TeamA].fouls,
		TeamBFouls:         s.teams[TeamB].fouls,
		TeamATimeouts:      s.teams[TeamA].timeouts,
		TeamBTimeouts:      s.teams[TeamB].timeouts,
		TeamAActivePlayers: idStrings(s.teams[TeamA].roster.Active()),
		TeamBActivePlayers: idStrings(s.teams[TeamB].roster.Active()),
		PlayerStats:        stats,
		Substitutions:      subs,
	}
}

// Restore replaces the entire session state with a previously taken
// snapshot. This is the "revert all" path: unsaved deltas are discarded and
// the undo history is cleared, because the actions it describes no longer
// exist in the restored state.
func (s *Session) Restore(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamA, err := parseIDs(snap.TeamAActivePlayers)
	if err != nil {
		return fmt.Errorf("restore team a lineup: %w", err)
	}
	teamB, err := parseIDs(snap.TeamBActivePlayers)
	if err != nil {
		return fmt.Errorf("restore team b lineup: %w", err)
	}
	stats := make(map[uuid.UUID]*StatLine, len(snap.PlayerStats))
	for idStr, line := range snap.PlayerStats {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("restore stat line for %q: %w", idStr, err)
		}
		l := line
		stats[id] = &l
	}

	s.status = Status(snap.Status)
	s.rules = Rules{
		TotalQuarters:      snap.TotalQuarters,
		MinutesPerQuarter:  snap.MinutesPerQuarter,
		TimeoutsPerQuarter: snap.TimeoutsPerQuarter,
	}
	s.quarter = snap.Quarter
	s.clock = Clock{Remaining: snap.TimeRemaining, Running: snap.IsRunning}
	s.teams = map[TeamSide]*teamState{
		TeamA: {score: snap.TeamAScore, fouls: snap.TeamAFouls, timeouts: snap.TeamATimeouts, roster: Roster{active: teamA}},
		TeamB: {score: snap.TeamBScore, fouls: snap.TeamBFouls, timeouts: snap.TeamBTimeouts, roster: Roster{active: teamB}},
	}
	s.stats = stats
	s.subs = append([]SubstitutionEvent(nil), snap.Substitutions...)
	s.history.Clear()
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(strs []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(strs))
	for i, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
