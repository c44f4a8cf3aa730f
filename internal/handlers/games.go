// Package handlers contains HTTP route handler functions for the Queens
// Ballers Republiq API. This file handles the /api/v1/games routes — listing
// and scheduling games, and moving them through their lifecycle
// (scheduled → in_progress → completed, or cancelled).
//
// Each exported function follows the handler-factory pattern: it takes its
// dependencies (the *gorm.DB, the scoring manager) and returns a
// fiber.Handler. This keeps dependencies explicit instead of global.
//
// Permission model: all authenticated members can read games; scheduling and
// running games is restricted to the "admin" and "manager" global roles via
// middleware.RequireRole on the routes.
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qbrepubliq/ballers-api/internal/models"
	"github.com/qbrepubliq/ballers-api/internal/scoring"
)

// GameResponse is what we send back to the app for a game. A dedicated
// response struct (instead of the raw GORM model) controls exactly which
// fields are serialized and lets us inline the team names.
type GameResponse struct {
	ID          string `json:"id"`
	SeasonID    string `json:"season_id"`
	TeamAID     string `json:"team_a_id"`
	TeamAName   string `json:"team_a_name"`
	TeamBID     string `json:"team_b_id"`
	TeamBName   string `json:"team_b_name"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduled_at"`
	TeamAScore  int    `json:"team_a_score"`
	TeamBScore  int    `json:"team_b_score"`
	Quarter     int    `json:"quarter"`
	CreatedAt   string `json:"created_at"`
}

// CreateGameRequest is the JSON body we expect on POST /api/v1/games.
// The rules fields are optional; omitted fields fall back to the league
// defaults (4 quarters, 12 minutes, 2 timeouts).
type CreateGameRequest struct {
	SeasonID    string `json:"season_id"`
	TeamAID     string `json:"team_a_id"`
	TeamBID     string `json:"team_b_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC 3339 timestamp

	TotalQuarters      *int `json:"total_quarters"`
	MinutesPerQuarter  *int `json:"minutes_per_quarter"`
	TimeoutsPerQuarter *int `json:"timeouts_per_quarter"`
}

func gameResponse(g models.Game) GameResponse {
	return GameResponse{
		ID:          g.ID.String(),
		SeasonID:    g.SeasonID.String(),
		TeamAID:     g.TeamAID.String(),
		TeamAName:   g.TeamA.Name,
		TeamBID:     g.TeamBID.String(),
		TeamBName:   g.TeamB.Name,
		Status:      string(g.Status),
		ScheduledAt: g.ScheduledAt.UTC().Format(time.RFC3339),
		TeamAScore:  g.TeamAScore,
		TeamBScore:  g.TeamBScore,
		Quarter:     g.Quarter,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// GetGames returns a handler for GET /api/v1/games.
//   - Admins see every game.
//   - Everyone else sees games in full too (schedules are league-public),
//     but ?mine=true narrows the list to games whose teams the caller manages.
//   - Optional filters: ?season_id=<uuid>, ?status=scheduled|in_progress|...
func GetGames(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr, _ := c.Locals("userID").(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user ID",
			})
		}

		// Preload both team records so the response can show team names
		// without N+1 queries.
		query := db.Preload("TeamA").Preload("TeamB")

		if seasonID := c.Query("season_id"); seasonID != "" {
			query = query.Where("season_id = ?", seasonID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if c.Query("mine") == "true" {
			// Games where the caller manages either team
			query = query.
				Joins("JOIN teams ta ON ta.id = games.team_a_id").
				Joins("JOIN teams tb ON tb.id = games.team_b_id").
				Where("ta.manager_id = ? OR tb.manager_id = ?", userID, userID)
		}

		var games []models.Game
		if err := query.Order("scheduled_at").Find(&games).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch games",
			})
		}

		response := make([]GameResponse, 0, len(games))
		for _, g := range games {
			response = append(response, gameResponse(g))
		}
		return c.JSON(response)
	}
}

// CreateGame returns a handler for POST /api/v1/games (admin and manager
// only). It schedules a matchup between two distinct teams of the same
// season; the optional game-rules fields are validated against the
// recognized option sets, never clamped.
func CreateGame(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateGameRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		seasonID, err := uuid.Parse(req.SeasonID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "season_id must be a valid UUID",
			})
		}
		teamAID, err := uuid.Parse(req.TeamAID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "team_a_id must be a valid UUID",
			})
		}
		teamBID, err := uuid.Parse(req.TeamBID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "team_b_id must be a valid UUID",
			})
		}
		if teamAID == teamBID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "a team cannot play itself",
			})
		}
		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "scheduled_at must be an RFC 3339 timestamp",
			})
		}

		// Rules: start from the defaults, overlay whatever was provided,
		// then validate the combination as a whole.
		rules := scoring.DefaultRules()
		if req.TotalQuarters != nil {
			rules.TotalQuarters = *req.TotalQuarters
		}
		if req.MinutesPerQuarter != nil {
			rules.MinutesPerQuarter = *req.MinutesPerQuarter
		}
		if req.TimeoutsPerQuarter != nil {
			rules.TimeoutsPerQuarter = *req.TimeoutsPerQuarter
		}
		if err := rules.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Both teams must exist and belong to the given season
		var teams []models.Team
		if err := db.Where("id IN ? AND season_id = ?", []uuid.UUID{teamAID, teamBID}, seasonID).Find(&teams).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to look up teams",
			})
		}
		if len(teams) != 2 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "both teams must exist and belong to the season",
			})
		}

		game := models.Game{
			SeasonID:           seasonID,
			TeamAID:            teamAID,
			TeamBID:            teamBID,
			Status:             models.GameStatusScheduled,
			ScheduledAt:        scheduledAt,
			TotalQuarters:      rules.TotalQuarters,
			MinutesPerQuarter:  rules.MinutesPerQuarter,
			TimeoutsPerQuarter: rules.TimeoutsPerQuarter,
			Quarter:            1,
			TimeRemaining:      rules.QuarterSeconds(),
			TeamATimeouts:      rules.TimeoutsPerQuarter,
			TeamBTimeouts:      rules.TimeoutsPerQuarter,
			TeamAActivePlayers: "[]",
			TeamBActivePlayers: "[]",
			Substitutions:      "[]",
		}
		if err := db.Create(&game).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create game",
			})
		}

		db.Preload("TeamA").Preload("TeamB").First(&game, "id = ?", game.ID)
		return c.Status(fiber.StatusCreated).JSON(gameResponse(game))
	}
}

// StartGame returns a handler for POST /api/v1/games/:id/start. It opens the
// scoresheet: the game moves to in_progress, each team's starting five
// defaults to its first five roster entries, and a live scoring session is
// registered with the manager. The fresh snapshot is returned.
func StartGame(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid game ID",
			})
		}

		var game models.Game
		if err := db.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "game not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}
		if game.Status != models.GameStatusScheduled {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "game is " + string(game.Status),
			})
		}

		// Default starting five: the first five roster entries per team, in
		// roster order. The scorekeeper can change the lineup afterwards.
		lineupA, err := defaultLineup(db, game.TeamAID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load team A roster",
			})
		}
		lineupB, err := defaultLineup(db, game.TeamBID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load team B roster",
			})
		}

		rules := scoring.Rules{
			TotalQuarters:      game.TotalQuarters,
			MinutesPerQuarter:  game.MinutesPerQuarter,
			TimeoutsPerQuarter: game.TimeoutsPerQuarter,
		}
		session, err := scoring.NewSession(gameID, rules)
		if err != nil {
			return scoringError(c, err)
		}
		if err := session.Begin(map[scoring.TeamSide][]uuid.UUID{
			scoring.TeamA: lineupA,
			scoring.TeamB: lineupB,
		}); err != nil {
			return scoringError(c, err)
		}

		// Mark the row in_progress synchronously so a crash between here and
		// the first flush still leaves the game resumable.
		if err := db.Model(&game).Update("status", models.GameStatusInProgress).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update game status",
			})
		}

		mgr.Register(session)
		return c.Status(fiber.StatusCreated).JSON(mgr.Flush(session))
	}
}

// CompleteGame returns a handler for POST /api/v1/games/:id/complete. The
// session is finalized, its last snapshot flushed, and the live registration
// dropped — from here on the game's stats are read-side only.
func CompleteGame(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return endGame(db, mgr, models.GameStatusCompleted)
}

// CancelGame returns a handler for POST /api/v1/games/:id/cancel.
func CancelGame(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return endGame(db, mgr, models.GameStatusCancelled)
}

// endGame is the shared teardown for Complete and Cancel: transition the
// session, flush its final snapshot, deregister it, and persist the terminal
// status synchronously.
func endGame(db *gorm.DB, mgr *scoring.Manager, terminal models.GameStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid game ID",
			})
		}

		session, ok := mgr.Get(gameID)
		if ok {
			if terminal == models.GameStatusCompleted {
				err = session.Complete()
			} else {
				err = session.Cancel()
			}
			if err != nil {
				return scoringError(c, err)
			}
			mgr.Flush(session)
			mgr.Remove(gameID)
		}

		// Cancelling a scheduled game has no live session; update the row
		// directly. (For live games this repeats what the flush wrote, which
		// is harmless and removes the race with the async save.)
		res := db.Model(&models.Game{}).
			Where("id = ?", gameID).
			Where("status IN ?", []models.GameStatus{models.GameStatusScheduled, models.GameStatusInProgress}).
			Update("status", terminal)
		if res.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update game status",
			})
		}
		if res.RowsAffected == 0 && !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "game is not scheduled or in progress",
			})
		}

		return c.JSON(fiber.Map{"status": string(terminal)})
	}
}

// defaultLineup loads a team's first five roster entries (by roster order)
// as the opening on-court lineup.
func defaultLineup(db *gorm.DB, teamID uuid.UUID) ([]uuid.UUID, error) {
	var players []models.Player
	err := db.Where("team_id = ?", teamID).
		Order("roster_order, created_at").
		Limit(scoring.MaxOnCourt).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids, nil
}
