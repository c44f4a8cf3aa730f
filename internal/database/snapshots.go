// snapshots.go — persistence for live scoresheet state.
//
// The scoring engine hands a flattened Snapshot to SaveSnapshot after every
// change (fire-and-forget, from a goroutine). The snapshot lands in two
// places: the game row's live-state columns, and one player_game_stats row
// per player who has recorded anything. LoadSnapshot reads the same state
// back so a live game can be resumed after a server restart.
package database

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qbrepubliq/ballers-api/internal/models"
	"github.com/qbrepubliq/ballers-api/internal/scoring"
)

// SnapshotWriter implements scoring.Persister on top of GORM.
type SnapshotWriter struct {
	db *gorm.DB
}

// NewSnapshotWriter wraps a GORM handle.
func NewSnapshotWriter(db *gorm.DB) *SnapshotWriter {
	return &SnapshotWriter{db: db}
}

// SaveSnapshot writes the game row and upserts every stat line in one
// transaction, so a crash mid-save can't leave the score and the stat lines
// describing different moments.
func (w *SnapshotWriter) SaveSnapshot(snap scoring.Snapshot) error {
	gameID, err := uuid.Parse(snap.GameID)
	if err != nil {
		return fmt.Errorf("bad game id in snapshot: %w", err)
	}

	teamA, err := json.Marshal(snap.TeamAActivePlayers)
	if err != nil {
		return err
	}
	teamB, err := json.Marshal(snap.TeamBActivePlayers)
	if err != nil {
		return err
	}
	subs, err := json.Marshal(snap.Substitutions)
	if err != nil {
		return err
	}

	return w.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":               snap.Status,
			"total_quarters":       snap.TotalQuarters,
			"minutes_per_quarter":  snap.MinutesPerQuarter,
			"timeouts_per_quarter": snap.TimeoutsPerQuarter,
			"quarter":              snap.Quarter,
			"time_remaining":       snap.TimeRemaining,
			"is_running":           snap.IsRunning,
			"team_a_score":         snap.TeamAScore,
			"team_b_score":         snap.TeamBScore,
			"team_a_fouls":         snap.TeamAFouls,
			"team_b_fouls":         snap.TeamBFouls,
			"team_a_timeouts":      snap.TeamATimeouts,
			"team_b_timeouts":      snap.TeamBTimeouts,
			"team_a_active_players": string(teamA),
			"team_b_active_players": string(teamB),
			"substitutions":         string(subs),
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Updates(updates).Error; err != nil {
			return err
		}

		for playerIDStr, line := range snap.PlayerStats {
			playerID, err := uuid.Parse(playerIDStr)
			if err != nil {
				return fmt.Errorf("bad player id in snapshot: %w", err)
			}
			row := models.PlayerGameStat{
				GameID:                 gameID,
				PlayerID:               playerID,
				Points:                 line.Points,
				FieldGoalsMade:         line.FieldGoalsMade,
				FieldGoalsAttempted:    line.FieldGoalsAttempted,
				ThreePointersMade:      line.ThreePointersMade,
				ThreePointersAttempted: line.ThreePointersAttempted,
				FreeThrowsMade:         line.FreeThrowsMade,
				FreeThrowsAttempted:    line.FreeThrowsAttempted,
				Assists:                line.Assists,
				Rebounds:               line.Rebounds,
				Steals:                 line.Steals,
				Blocks:                 line.Blocks,
				Fouls:                  line.Fouls,
				Turnovers:              line.Turnovers,
			}
			// One row per player per game: insert the first time, overwrite
			// the cumulative line on every later flush.
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "game_id"}, {Name: "player_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"points", "field_goals_made", "field_goals_attempted",
					"three_pointers_made", "three_pointers_attempted",
					"free_throws_made", "free_throws_attempted",
					"assists", "rebounds", "steals", "blocks", "fouls",
					"turnovers", "updated_at",
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSnapshot reconstructs a scoresheet snapshot from the persisted game row
// and its stat lines. Used to resume a game that was live when the server
// last stopped.
func (w *SnapshotWriter) LoadSnapshot(gameID uuid.UUID) (scoring.Snapshot, error) {
	var game models.Game
	if err := w.db.First(&game, "id = ?", gameID).Error; err != nil {
		return scoring.Snapshot{}, err
	}

	var teamA, teamB []string
	if err := json.Unmarshal([]byte(game.TeamAActivePlayers), &teamA); err != nil {
		return scoring.Snapshot{}, fmt.Errorf("decode team a lineup: %w", err)
	}
	if err := json.Unmarshal([]byte(game.TeamBActivePlayers), &teamB); err != nil {
		return scoring.Snapshot{}, fmt.Errorf("decode team b lineup: %w", err)
	}
	var subs []scoring.SubstitutionEvent
	if err := json.Unmarshal([]byte(game.Substitutions), &subs); err != nil {
		return scoring.Snapshot{}, fmt.Errorf("decode substitution feed: %w", err)
	}

	var rows []models.PlayerGameStat
	if err := w.db.Where("game_id = ?", gameID).Find(&rows).Error; err != nil {
		return scoring.Snapshot{}, err
	}
	stats := make(map[string]scoring.StatLine, len(rows))
	for _, r := range rows {
		stats[r.PlayerID.String()] = scoring.StatLine{
			Points:                 r.Points,
			FieldGoalsMade:         r.FieldGoalsMade,
			FieldGoalsAttempted:    r.FieldGoalsAttempted,
			ThreePointersMade:      r.ThreePointersMade,
			ThreePointersAttempted: r.ThreePointersAttempted,
			FreeThrowsMade:         r.FreeThrowsMade,
			FreeThrowsAttempted:    r.FreeThrowsAttempted,
			Assists:                r.Assists,
			Rebounds:               r.Rebounds,
			Steals:                 r.Steals,
			Blocks:                 r.Blocks,
			Fouls:                  r.Fouls,
			Turnovers:              r.Turnovers,
		}
	}

	return scoring.Snapshot{
		GameID:             game.ID.String(),
		Status:             string(game.Status),
		Quarter:            game.Quarter,
		TimeRemaining:      game.TimeRemaining,
		IsRunning:          game.IsRunning,
		TotalQuarters:      game.TotalQuarters,
		MinutesPerQuarter:  game.MinutesPerQuarter,
		TimeoutsPerQuarter: game.TimeoutsPerQuarter,
		TeamAScore:         game.TeamAScore,
		TeamBScore:         game.TeamBScore,
		TeamAFouls:         game.TeamAFouls,
		TeamBFouls:         game.TeamBFouls,
		TeamATimeouts:      game.TeamATimeouts,
		TeamBTimeouts:      game.TeamBTimeouts,
		TeamAActivePlayers: teamA,
		TeamBActivePlayers: teamB,
		PlayerStats:        stats,
		Substitutions:      subs,
	}, nil
}
