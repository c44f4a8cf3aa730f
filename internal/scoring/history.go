package scoring

import (
	"fmt"

	"github.com/google/uuid"
)

// ActionKind classifies a reversible action.
type ActionKind string

const (
	// ActionShot is a shot attempt (made or missed, any value).
	ActionShot ActionKind = "shot"
	// ActionStat is a simple counter change (assist, rebound, foul, ...).
	ActionStat ActionKind = "stat"
	// ActionTimeout is a team timeout being used.
	ActionTimeout ActionKind = "timeout"
)

// ActionRecord captures everything needed to exactly reverse one action.
// For a shot that's the value and whether it went in; for a stat it's the
// name and the delta that was actually applied (which may differ from the
// requested delta when a decrement hit the zero floor); for a timeout just
// the team. Quarter and the clock reading are carried along for the activity
// feed, not for reversal.
type ActionRecord struct {
	Kind     ActionKind `json:"kind"`
	PlayerID uuid.UUID  `json:"player_id,omitempty"`
	Team     TeamSide   `json:"team"`

	ShotValue int      `json:"shot_value,omitempty"`
	Made      bool     `json:"made,omitempty"`
	Stat      StatName `json:"stat,omitempty"`
	Delta     int      `json:"delta,omitempty"`

	Quarter      int `json:"quarter"`
	ClockAtEvent int `json:"clock_at_event"`
}

// History keeps an append-only stack of action records per key. A key is
// either a player (their actions undo independently of everyone else's) or a
// team's timeout slot. Undo is strictly last-in-first-out within a key —
// there is no way to pluck an older record out of the middle.
type History struct {
	stacks map[string][]ActionRecord
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{stacks: make(map[string][]ActionRecord)}
}

// PlayerKey returns the history key for a player's actions.
func PlayerKey(playerID uuid.UUID) string {
	return playerID.String()
}

// TimeoutKey returns the history key for a team's timeout usage, e.g.
// "team_a_timeout".
func TimeoutKey(side TeamSide) string {
	return fmt.Sprintf("team_%s_timeout", side)
}

// Push appends a record to the key's stack.
func (h *History) Push(key string, rec ActionRecord) {
	h.stacks[key] = append(h.stacks[key], rec)
}

// PopLast removes and returns the most recent record for the key. The
// second return value is false when the stack is empty — that is not an
// error, just "nothing to undo".
func (h *History) PopLast(key string) (ActionRecord, bool) {
	stack := h.stacks[key]
	if len(stack) == 0 {
		return ActionRecord{}, false
	}
	rec := stack[len(stack)-1]
	h.stacks[key] = stack[:len(stack)-1]
	return rec, true
}

// CanUndo reports whether the key has anything to undo. The UI uses this to
// decide whether the undo control is enabled.
func (h *History) CanUndo(key string) bool {
	return len(h.stacks[key]) > 0
}

// Clear discards every stack. Called when the session state is reloaded
// from a persisted snapshot — the in-memory deltas those records describe no
// longer exist, so undoing them would corrupt the restored state.
func (h *History) Clear() {
	h.stacks = make(map[string][]ActionRecord)
}
