// Package scoring implements the live scoresheet engine for Queens Ballers
// Republiq: the in-memory game clock, quarter and timeout bookkeeping, the
// 5-on-court lineup tracker, the per-player stat ledger, and action-level undo.
//
// Everything in this package is plain in-memory state. Persistence and HTTP
// are layered on top of it (see internal/handlers and internal/database) —
// the engine itself never touches the database or the network. A Session is
// the aggregate for one live game; a Manager serializes access to many
// sessions and drives their clocks.
package scoring

import "errors"

// Sentinel errors returned by the engine. Handlers match on these with
// errors.Is to pick an HTTP status, so every validation failure the engine
// can produce has a named error here.
var (
	// ErrRosterOverflow is returned when a lineup change would put more than
	// five players on the court for one team.
	ErrRosterOverflow = errors.New("active lineup cannot exceed five players")

	// ErrDuplicatePlayer is returned when a lineup contains the same player
	// twice. Duplicates are a caller bug, so they are rejected rather than
	// silently deduplicated.
	ErrDuplicatePlayer = errors.New("duplicate player in lineup")

	// ErrPlayerNotActive is returned when an operation names a player who is
	// not currently on the court (substituting out a benched player, or
	// crediting a stat to someone who isn't playing).
	ErrPlayerNotActive = errors.New("player is not on the court")

	// ErrPlayerAlreadyActive is returned when a substitution would bring in a
	// player who is already on the court.
	ErrPlayerAlreadyActive = errors.New("player is already on the court")

	// ErrQuarterLimitReached is returned by AdvanceQuarter once the session
	// is already in its final quarter.
	ErrQuarterLimitReached = errors.New("already in the final quarter")

	// ErrInvalidGameState is returned when a mutating operation is attempted
	// while the session is not in progress (still scheduled, or already
	// completed/cancelled).
	ErrInvalidGameState = errors.New("game is not in progress")

	// ErrInvalidConfiguration is returned when game rules are set to a value
	// outside the recognized option sets (see Rules.Validate).
	ErrInvalidConfiguration = errors.New("invalid game rules")

	// ErrInvalidShotValue is returned for a shot worth anything other than
	// 1, 2 or 3 points.
	ErrInvalidShotValue = errors.New("shot value must be 1, 2 or 3")

	// ErrInvalidStat is returned when a stat event names an unknown counter.
	ErrInvalidStat = errors.New("unknown stat name")

	// ErrNoTimeoutsLeft is returned when a team tries to call a timeout with
	// none remaining this quarter.
	ErrNoTimeoutsLeft = errors.New("no timeouts remaining this quarter")

	// ErrGameNotLive is returned by the Manager when no live session is
	// registered for a game id.
	ErrGameNotLive = errors.New("no live scoresheet for this game")
)
