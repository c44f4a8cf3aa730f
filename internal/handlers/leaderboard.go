// leaderboard.go — read-side season reporting. Once games are completed their
// persisted stat lines are plain rows; the leaderboard is a SUM over them,
// grouped by player. The live engine is not involved here at all.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qbrepubliq/ballers-api/internal/models"
)

// LeaderboardEntry is one player's season totals. PointsPerGame is computed
// here rather than in SQL so the division-by-zero guard is explicit.
type LeaderboardEntry struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TeamName      string  `json:"team_name"`
	GamesPlayed   int     `json:"games_played"`
	Points        int     `json:"points"`
	Rebounds      int     `json:"rebounds"`
	Assists       int     `json:"assists"`
	Steals        int     `json:"steals"`
	Blocks        int     `json:"blocks"`
	PointsPerGame float64 `json:"points_per_game"`
}

// GetSeasonLeaderboard returns a handler for GET
// /api/v1/seasons/:id/leaderboard. Only completed games count — a live
// game's provisional stats stay off the board until it's finalized.
func GetSeasonLeaderboard(db *gorm.DB) fiber.Handler {
	// row matches the SELECT below; scanned directly by GORM.
	type row struct {
		PlayerID    uuid.UUID
		PlayerName  string
		TeamName    string
		GamesPlayed int
		Points      int
		Rebounds    int
		Assists     int
		Steals      int
		Blocks      int
	}
	return func(c *fiber.Ctx) error {
		seasonID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid season ID",
			})
		}

		var rows []row
		err = db.Table("player_game_stats").
			Select(`players.id AS player_id,
				players.name AS player_name,
				teams.name AS team_name,
				COUNT(DISTINCT games.id) AS games_played,
				COALESCE(SUM(player_game_stats.points), 0) AS points,
				COALESCE(SUM(player_game_stats.rebounds), 0) AS rebounds,
				COALESCE(SUM(player_game_stats.assists), 0) AS assists,
				COALESCE(SUM(player_game_stats.steals), 0) AS steals,
				COALESCE(SUM(player_game_stats.blocks), 0) AS blocks`).
			Joins("JOIN games ON games.id = player_game_stats.game_id").
			Joins("JOIN players ON players.id = player_game_stats.player_id").
			Joins("JOIN teams ON teams.id = players.team_id").
			Where("games.season_id = ? AND games.status = ?", seasonID, models.GameStatusCompleted).
			Group("players.id, players.name, teams.name").
			Order("points DESC").
			Scan(&rows).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build leaderboard",
			})
		}

		entries := make([]LeaderboardEntry, 0, len(rows))
		for _, r := range rows {
			ppg := 0.0
			if r.GamesPlayed > 0 {
				ppg = float64(r.Points) / float64(r.GamesPlayed)
			}
			entries = append(entries, LeaderboardEntry{
				PlayerID:      r.PlayerID.String(),
				PlayerName:    r.PlayerName,
				TeamName:      r.TeamName,
				GamesPlayed:   r.GamesPlayed,
				Points:        r.Points,
				Rebounds:      r.Rebounds,
				Assists:       r.Assists,
				Steals:        r.Steals,
				Blocks:        r.Blocks,
				PointsPerGame: ppg,
			})
		}
		return c.JSON(entries)
	}
}
