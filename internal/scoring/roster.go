package scoring

import "github.com/google/uuid"

// MaxOnCourt is the number of players a team may have on the floor at once.
const MaxOnCourt = 5

// TeamSide identifies one of the two sides of a game. The scoresheet wire
// format calls them "a" and "b" (team_a_score, team_b_active_players, ...),
// so the engine uses the same names.
type TeamSide string

const (
	TeamA TeamSide = "a"
	TeamB TeamSide = "b"
)

// Valid reports whether the side is one of the two recognized values.
func (s TeamSide) Valid() bool {
	return s == TeamA || s == TeamB
}

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == TeamA {
		return TeamB
	}
	return TeamA
}

// SubstitutionPair describes one swap in a batched substitution: Out leaves
// the court, In takes their place.
type SubstitutionPair struct {
	Out uuid.UUID `json:"out"`
	In  uuid.UUID `json:"in"`
}

// Roster tracks which players are currently on the court for one team. Order
// is preserved (the UI shows the lineup in the order it was set) and the
// five-player cap is enforced at every mutation — an invalid change is
// rejected whole, never partially applied or silently truncated.
type Roster struct {
	active []uuid.UUID
}

// Active returns a copy of the on-court lineup in order.
func (r *Roster) Active() []uuid.UUID {
	out := make([]uuid.UUID, len(r.active))
	copy(out, r.active)
	return out
}

// IsActive reports whether the player is currently on the court.
func (r *Roster) IsActive(playerID uuid.UUID) bool {
	return r.indexOf(playerID) >= 0
}

func (r *Roster) indexOf(playerID uuid.UUID) int {
	for i, id := range r.active {
		if id == playerID {
			return i
		}
	}
	return -1
}

// SetActive replaces the whole lineup at once. The new lineup must have at
// most five players and no duplicates; duplicates are a caller bug and are
// rejected rather than cleaned up.
func (r *Roster) SetActive(playerIDs []uuid.UUID) error {
	if len(playerIDs) > MaxOnCourt {
		return ErrRosterOverflow
	}
	seen := make(map[uuid.UUID]bool, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			return ErrDuplicatePlayer
		}
		seen[id] = true
	}
	r.active = make([]uuid.UUID, len(playerIDs))
	copy(r.active, playerIDs)
	return nil
}

// SubstituteOne swaps a single player: out must be on the court, in must not
// be. The incoming player takes the outgoing player's slot in the lineup
// order.
func (r *Roster) SubstituteOne(out, in uuid.UUID) error {
	i := r.indexOf(out)
	if i < 0 {
		return ErrPlayerNotActive
	}
	if r.IsActive(in) {
		return ErrPlayerAlreadyActive
	}
	r.active[i] = in
	return nil
}

// SubstituteMany applies a batch of swaps as one atomic transaction. Each
// pair is validated against the state left by the previous pair — so a batch
// may bring a player in and then swap them back out — but if any pair is
// invalid the whole batch is rejected and the lineup is left untouched.
func (r *Roster) SubstituteMany(pairs []SubstitutionPair) error {
	// Rehearse the batch on a scratch copy so a failure partway through
	// cannot leave a half-applied lineup.
	scratch := Roster{active: r.Active()}
	for _, p := range pairs {
		if err := scratch.SubstituteOne(p.Out, p.In); err != nil {
			return err
		}
	}
	r.active = scratch.active
	return nil
}

// ToggleActive is the quick-substitution path: an on-court player goes to
// the bench, a benched player comes in (if there is room). It reports
// whether the player ended up on the court.
func (r *Roster) ToggleActive(playerID uuid.UUID) (wentIn bool, err error) {
	if i := r.indexOf(playerID); i >= 0 {
		r.active = append(r.active[:i], r.active[i+1:]...)
		return false, nil
	}
	if len(r.active) >= MaxOnCourt {
		return false, ErrRosterOverflow
	}
	r.active = append(r.active, playerID)
	return true, nil
}
