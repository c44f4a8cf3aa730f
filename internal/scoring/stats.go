package scoring

// StatName identifies one of the simple per-player counters — the stats that
// are just incremented or decremented, as opposed to shots, which touch
// several counters at once.
type StatName string

const (
	StatAssists   StatName = "assists"
	StatRebounds  StatName = "rebounds"
	StatSteals    StatName = "steals"
	StatBlocks    StatName = "blocks"
	StatFouls     StatName = "fouls"
	StatTurnovers StatName = "turnovers"
)

// Valid reports whether the name is one of the recognized counters.
func (n StatName) Valid() bool {
	switch n {
	case StatAssists, StatRebounds, StatSteals, StatBlocks, StatFouls, StatTurnovers:
		return true
	}
	return false
}

// StatLine is one player's cumulative line for one game. The JSON tags are
// the scoresheet wire names and must stay as they are — the mobile app and
// the persisted snapshots both key on them.
//
// Points is never incremented directly. It is recomputed from the shooting
// splits after every change (see derivePoints), so it can never drift from
// the made counters no matter how actions and undos interleave.
type StatLine struct {
	Points                 int `json:"points"`
	FieldGoalsMade         int `json:"field_goals_made"`
	FieldGoalsAttempted    int `json:"field_goals_attempted"`
	ThreePointersMade      int `json:"three_pointers_made"`
	ThreePointersAttempted int `json:"three_pointers_attempted"`
	FreeThrowsMade         int `json:"free_throws_made"`
	FreeThrowsAttempted    int `json:"free_throws_attempted"`
	Assists                int `json:"assists"`
	Rebounds               int `json:"rebounds"`
	Steals                 int `json:"steals"`
	Blocks                 int `json:"blocks"`
	Fouls                  int `json:"fouls"`
	Turnovers              int `json:"turnovers"`
}

// derivePoints recomputes the Points field from the shooting splits:
// 3 per made three, 2 per made two (made field goals that weren't threes),
// 1 per made free throw.
func (l *StatLine) derivePoints() {
	l.Points = 3*l.ThreePointersMade + 2*(l.FieldGoalsMade-l.ThreePointersMade) + l.FreeThrowsMade
}

// applyShot records a shot attempt on the line. Free throws (value 1) touch
// the free-throw counters; twos and threes touch the field-goal counters,
// with threes also counted in the three-point split. The caller has already
// validated the shot value.
func (l *StatLine) applyShot(value int, made bool) {
	switch value {
	case 1:
		l.FreeThrowsAttempted++
		if made {
			l.FreeThrowsMade++
		}
	case 2:
		l.FieldGoalsAttempted++
		if made {
			l.FieldGoalsMade++
		}
	case 3:
		l.FieldGoalsAttempted++
		l.ThreePointersAttempted++
		if made {
			l.FieldGoalsMade++
			l.ThreePointersMade++
		}
	}
	l.derivePoints()
}

// reverseShot is the exact inverse of applyShot. Counters are floored at
// zero as a guard, but under stack-ordered undo they can never actually go
// negative.
func (l *StatLine) reverseShot(value int, made bool) {
	switch value {
	case 1:
		l.FreeThrowsAttempted = floorZero(l.FreeThrowsAttempted - 1)
		if made {
			l.FreeThrowsMade = floorZero(l.FreeThrowsMade - 1)
		}
	case 2:
		l.FieldGoalsAttempted = floorZero(l.FieldGoalsAttempted - 1)
		if made {
			l.FieldGoalsMade = floorZero(l.FieldGoalsMade - 1)
		}
	case 3:
		l.FieldGoalsAttempted = floorZero(l.FieldGoalsAttempted - 1)
		l.ThreePointersAttempted = floorZero(l.ThreePointersAttempted - 1)
		if made {
			l.FieldGoalsMade = floorZero(l.FieldGoalsMade - 1)
			l.ThreePointersMade = floorZero(l.ThreePointersMade - 1)
		}
	}
	l.derivePoints()
}

// applyStat adds delta to the named counter, flooring the result at zero.
// It returns the delta that actually landed — if a decrement would have gone
// below zero, the applied delta is smaller in magnitude than requested — so
// the action record can be reversed exactly.
func (l *StatLine) applyStat(name StatName, delta int) (applied int) {
	field := l.statField(name)
	before := *field
	after := floorZero(before + delta)
	*field = after
	return after - before
}

// statField returns a pointer to the counter behind a StatName. The caller
// has already validated the name.
func (l *StatLine) statField(name StatName) *int {
	switch name {
	case StatAssists:
		return &l.Assists
	case StatRebounds:
		return &l.Rebounds
	case StatSteals:
		return &l.Steals
	case StatBlocks:
		return &l.Blocks
	case StatFouls:
		return &l.Fouls
	default:
		return &l.Turnovers
	}
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
