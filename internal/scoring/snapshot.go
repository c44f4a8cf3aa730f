package scoring

import "github.com/google/uuid"

// SubstitutionEvent is one entry in the recent-substitutions feed. The feed
// is display-only: it is never replayed to rebuild the active lineup, it
// just gives the scorekeeper a human-readable trail of who came and went.
// A nil PlayerOut means a player came in from the bench with nobody leaving;
// a nil PlayerIn means a player went to the bench with nobody replacing them
// (both happen on the quick-substitution toggle).
type SubstitutionEvent struct {
	Team      TeamSide   `json:"team"`
	Quarter   int        `json:"quarter"`
	ClockTime int        `json:"clock_time"`
	PlayerOut *uuid.UUID `json:"player_out"`
	PlayerIn  *uuid.UUID `json:"player_in"`
}

// Snapshot is the full externally visible state of a live game, flattened
// into the scoresheet wire format. The JSON field names (team_a_score,
// time_remaining, team_a_active_players, ...) are the contract with the
// mobile app and the persisted store — do not rename them.
//
// A Snapshot is a plain value: taking one never locks anything beyond the
// session mutex, and holding one after the session has moved on is safe.
type Snapshot struct {
	GameID string `json:"game_id"`
	Status string `json:"status"`

	Quarter       int  `json:"quarter"`
	TimeRemaining int  `json:"time_remaining"`
	IsRunning     bool `json:"is_running"`

	TotalQuarters      int `json:"total_quarters"`
	MinutesPerQuarter  int `json:"minutes_per_quarter"`
	TimeoutsPerQuarter int `json:"timeouts_per_quarter"`

	TeamAScore    int `json:"team_a_score"`
	TeamBScore    int `json:"team_b_score"`
	TeamAFouls    int `json:"team_a_fouls"`
	TeamBFouls    int `json:"team_b_fouls"`
	TeamATimeouts int `json:"team_a_timeouts"`
	TeamBTimeouts int `json:"team_b_timeouts"`

	TeamAActivePlayers []string `json:"team_a_active_players"`
	TeamBActivePlayers []string `json:"team_b_active_players"`

	PlayerStats   map[string]StatLine `json:"player_stats"`
	Substitutions []SubstitutionEvent `json:"substitutions"`
}
