// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go
// values. The struct field tags (the backtick strings like `gorm:"..."`) tell GORM
// how to handle each field: its column type, constraints, defaults, and relationships.
//
// The data model represents a basketball league platform where:
//   - Leagues run Seasons
//   - Teams register for Seasons and carry rosters of Players
//   - Games pit two teams against each other and hold the live scoresheet state
//   - PlayerGameStats store each player's line for each game
//
// The Game row doubles as the persisted scoresheet snapshot: while a game is live,
// the scoring engine periodically writes its state into the game's live-state
// columns (team_a_score, time_remaining, ...). Those column names are the wire
// contract with the mobile app and must not be renamed.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// UUIDs are safe to generate anywhere and don't leak record counts.
	"github.com/google/uuid"
)

// --- Enums ---
// Go doesn't have a built-in enum keyword, so we simulate them with a named
// string type plus constants: type-safe in Go, human-readable in the database.

// UserRole represents a user's global permission level across the platform.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access: manage leagues, games, everything
	UserRoleManager UserRole = "manager" // Runs teams and keeps score for games
	UserRoleUser    UserRole = "user"    // Regular member: views schedules, stats, standings
)

// GameStatus tracks the lifecycle of a game. It mirrors the scoring engine's
// session states — the database row and the in-memory session move together.
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"   // On the calendar, scoresheet not opened
	GameStatusInProgress GameStatus = "in_progress" // Live; scoresheet accepts events
	GameStatusCompleted  GameStatus = "completed"   // Final; stats feed the leaderboards
	GameStatusCancelled  GameStatus = "cancelled"   // Called off before or during play
)

// SeasonStatus tracks the lifecycle of a season within a league.
type SeasonStatus string

const (
	SeasonStatusUpcoming  SeasonStatus = "upcoming"
	SeasonStatusActive    SeasonStatus = "active"
	SeasonStatusCompleted SeasonStatus = "completed"
)

// --- Models ---
// Each struct below maps to a database table. GORM uses the struct name
// (snake_cased and pluralized) as the table name: User -> users, Game -> games.

// User represents a registered person in the system. Users are created lazily
// the first time a Clerk-authenticated user hits the API; ClerkID links our
// record to Clerk's identity system.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClerkID     *string   `gorm:"uniqueIndex:idx_users_clerk_id"` // Clerk's user ID; pointer = nullable for legacy rows
	DisplayName string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex;not null"`
	AvatarURL   *string
	Role        UserRole `gorm:"type:user_role;not null;default:'user'"` // Synced from the Clerk JWT "role" claim
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// League is the top-level container: one organization running seasons of
// basketball. Queens Ballers Republiq itself is a league, but the schema
// supports hosting several.
type League struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	Creator     User      `gorm:"foreignKey:CreatedBy"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Seasons     []Season `gorm:"foreignKey:LeagueID"`
}

// Season is one competition window within a league. Games and standings are
// scoped to a season.
type Season struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeagueID  uuid.UUID    `gorm:"type:uuid;not null"`
	League    League       `gorm:"foreignKey:LeagueID"`
	Name      string       `gorm:"not null"` // e.g. "Summer 2026"
	Status    SeasonStatus `gorm:"type:season_status;not null;default:'upcoming'"`
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Teams     []Team `gorm:"foreignKey:SeasonID"`
	Games     []Game `gorm:"foreignKey:SeasonID"`
}

// Team is a roster of players registered for one season. The ManagerID user
// runs the team and typically keeps score for its games.
type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID  uuid.UUID `gorm:"type:uuid;not null"`
	Season    Season    `gorm:"foreignKey:SeasonID"`
	Name      string    `gorm:"not null"`
	ManagerID uuid.UUID `gorm:"type:uuid;not null"`
	Manager   User      `gorm:"foreignKey:ManagerID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Players   []Player `gorm:"foreignKey:TeamID"`
}

// Player is one roster spot on a team. Players are league-managed records,
// not user accounts — plenty of players never log in. RosterOrder drives the
// default starting five (the first five roster entries) when a scoresheet
// opens with no lineup set.
type Player struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID       uuid.UUID `gorm:"type:uuid;not null"`
	Team         Team      `gorm:"foreignKey:TeamID"`
	Name         string    `gorm:"not null"`
	JerseyNumber *int      // Optional; some casual rosters don't assign numbers
	Position     *string   // Optional: "PG", "SG", "SF", "PF", "C"
	RosterOrder  int       `gorm:"not null;default:0"` // Display + default-lineup order
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Game is a scheduled matchup plus, once live, the persisted scoresheet
// snapshot. The live-state columns are written by the scoring engine's
// persister on every flush and are what "revert all" reloads after a crash.
//
// TeamAActivePlayers/TeamBActivePlayers and the substitution feed are stored
// as JSON arrays (jsonb) because they're opaque to SQL — nothing queries
// inside them, they're only round-tripped to the scoresheet.
type Game struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID    uuid.UUID  `gorm:"type:uuid;not null"`
	Season      Season     `gorm:"foreignKey:SeasonID"`
	TeamAID     uuid.UUID  `gorm:"type:uuid;not null"`
	TeamA       Team       `gorm:"foreignKey:TeamAID"`
	TeamBID     uuid.UUID  `gorm:"type:uuid;not null"`
	TeamB       Team       `gorm:"foreignKey:TeamBID"`
	Status      GameStatus `gorm:"type:game_status;not null;default:'scheduled'"`
	ScheduledAt time.Time  `gorm:"not null"`

	// Game rules (configurable per game from the scoresheet)
	TotalQuarters      int `gorm:"not null;default:4"`
	MinutesPerQuarter  int `gorm:"not null;default:12"`
	TimeoutsPerQuarter int `gorm:"not null;default:2"`

	// Live scoresheet state, flushed by the scoring engine
	Quarter            int    `gorm:"not null;default:1"`
	TimeRemaining      int    `gorm:"not null;default:720"` // seconds left in the quarter
	IsRunning          bool   `gorm:"not null;default:false"`
	TeamAScore         int    `gorm:"not null;default:0"`
	TeamBScore         int    `gorm:"not null;default:0"`
	TeamAFouls         int    `gorm:"not null;default:0"`
	TeamBFouls         int    `gorm:"not null;default:0"`
	TeamATimeouts      int    `gorm:"not null;default:2"`
	TeamBTimeouts      int    `gorm:"not null;default:2"`
	TeamAActivePlayers string `gorm:"type:jsonb;not null;default:'[]'"` // JSON array of player UUIDs
	TeamBActivePlayers string `gorm:"type:jsonb;not null;default:'[]'"`
	Substitutions      string `gorm:"type:jsonb;not null;default:'[]'"` // Display-only recent-subs feed

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerGameStat is one player's cumulative line for one game, created lazily
// the first time the scoresheet records an event for them. The unique index
// (idx_player_game) keeps one row per player per game so flushes can upsert.
// Points is always derived from the shooting splits by the engine before it
// reaches this table — it is stored for cheap leaderboard SUMs, not tracked
// independently.
type PlayerGameStat struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_game"`
	Game     Game      `gorm:"foreignKey:GameID"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_game"`
	Player   Player    `gorm:"foreignKey:PlayerID"`

	Points                 int `gorm:"not null;default:0"`
	FieldGoalsMade         int `gorm:"not null;default:0"`
	FieldGoalsAttempted    int `gorm:"not null;default:0"`
	ThreePointersMade      int `gorm:"not null;default:0"`
	ThreePointersAttempted int `gorm:"not null;default:0"`
	FreeThrowsMade         int `gorm:"not null;default:0"`
	FreeThrowsAttempted    int `gorm:"not null;default:0"`
	Assists                int `gorm:"not null;default:0"`
	Rebounds               int `gorm:"not null;default:0"`
	Steals                 int `gorm:"not null;default:0"`
	Blocks                 int `gorm:"not null;default:0"`
	Fouls                  int `gorm:"not null;default:0"`
	Turnovers              int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
