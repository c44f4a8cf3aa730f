// scoresheet.go — the HTTP surface of the live scoring engine.
//
// Every route here operates on the in-memory session for one game, held by
// the scoring.Manager. The handlers are thin on purpose: parse the request,
// call exactly one engine operation, flush, and answer the fresh snapshot.
// All validation and invariant enforcement lives in internal/scoring; this
// file only translates its typed errors into HTTP statuses.
//
// Routes (all under /api/v1/games/:id, admin and manager only except the
// snapshot GET):
//
//	GET  /scoresheet            current snapshot
//	POST /clock                 {"action": "start"|"pause"|"reset"}
//	POST /quarter/advance       next quarter (resets clock, fouls, timeouts)
//	PUT  /rules                 game format change
//	POST /shots                 shot attempt
//	POST /stats                 simple stat event
//	POST /timeouts              team timeout
//	PUT  /lineup                replace a team's on-court five
//	POST /substitutions         one swap or an atomic batch
//	POST /substitutions/toggle  quick sub: bench or insert one player
//	POST /undo                  undo the last action for a player / timeout slot
//	POST /revert                reload the last persisted snapshot
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qbrepubliq/ballers-api/internal/database"
	"github.com/qbrepubliq/ballers-api/internal/models"
	"github.com/qbrepubliq/ballers-api/internal/scoring"
)

// scoringError maps the engine's typed failures onto HTTP statuses. The
// engine guarantees state is untouched on failure, so every one of these is
// safe to retry after the operator fixes the input.
func scoringError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, scoring.ErrGameNotLive):
		status = fiber.StatusNotFound
	case errors.Is(err, scoring.ErrInvalidGameState),
		errors.Is(err, scoring.ErrQuarterLimitReached),
		errors.Is(err, scoring.ErrNoTimeoutsLeft):
		status = fiber.StatusConflict
	case errors.Is(err, scoring.ErrRosterOverflow),
		errors.Is(err, scoring.ErrDuplicatePlayer),
		errors.Is(err, scoring.ErrPlayerNotActive),
		errors.Is(err, scoring.ErrPlayerAlreadyActive),
		errors.Is(err, scoring.ErrInvalidConfiguration),
		errors.Is(err, scoring.ErrInvalidShotValue),
		errors.Is(err, scoring.ErrInvalidStat):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// liveSession finds the live session for the game in the URL. If the server
// restarted while the game was live, the session is rebuilt from the
// persisted snapshot and re-registered, so a crash costs at most the deltas
// since the last flush.
func liveSession(c *fiber.Ctx, db *gorm.DB, mgr *scoring.Manager) (*scoring.Session, error) {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, scoring.ErrGameNotLive
	}
	if s, ok := mgr.Get(gameID); ok {
		return s, nil
	}

	// Not registered — resume if the database says the game is live.
	var game models.Game
	if err := db.First(&game, "id = ?", gameID).Error; err != nil {
		return nil, scoring.ErrGameNotLive
	}
	if game.Status != models.GameStatusInProgress {
		return nil, scoring.ErrGameNotLive
	}

	snap, err := database.NewSnapshotWriter(db).LoadSnapshot(gameID)
	if err != nil {
		return nil, err
	}
	session, err := scoring.NewSession(gameID, scoring.Rules{
		TotalQuarters:      game.TotalQuarters,
		MinutesPerQuarter:  game.MinutesPerQuarter,
		TimeoutsPerQuarter: game.TimeoutsPerQuarter,
	})
	if err != nil {
		return nil, err
	}
	if err := session.Restore(snap); err != nil {
		return nil, err
	}
	mgr.Register(session)
	return session, nil
}

// GetScoresheet returns a handler for GET /api/v1/games/:id/scoresheet.
func GetScoresheet(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		return c.JSON(session.Snapshot())
	}
}

// ClockAction returns a handler for POST /api/v1/games/:id/clock.
func ClockAction(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		Action string `json:"action"` // "start", "pause", or "reset"
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		switch req.Action {
		case "start":
			err = session.StartClock()
		case "pause":
			err = session.PauseClock()
		case "reset":
			err = session.ResetClock()
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "action must be 'start', 'pause', or 'reset'",
			})
		}
		if err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// AdvanceQuarter returns a handler for POST /api/v1/games/:id/quarter/advance.
func AdvanceQuarter(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		if err := session.AdvanceQuarter(); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// UpdateRules returns a handler for PUT /api/v1/games/:id/rules. Values
// outside the recognized option sets are rejected by the engine, not
// clamped.
func UpdateRules(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var rules scoring.Rules
		if err := c.BodyParser(&rules); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if err := session.ApplyRules(rules); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// RecordShot returns a handler for POST /api/v1/games/:id/shots.
func RecordShot(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		PlayerID  string `json:"player_id"`
		Team      string `json:"team"` // "a" or "b"
		ShotValue int    `json:"shot_value"`
		Made      bool   `json:"made"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		playerID, err := uuid.Parse(req.PlayerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player_id must be a valid UUID",
			})
		}
		if err := session.RecordShot(playerID, scoring.TeamSide(req.Team), req.ShotValue, req.Made); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// RecordStat returns a handler for POST /api/v1/games/:id/stats. Delta
// defaults to +1 when omitted; corrections send negative deltas.
func RecordStat(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		PlayerID string `json:"player_id"`
		Team     string `json:"team"`
		Stat     string `json:"stat"` // assists, rebounds, steals, blocks, fouls, turnovers
		Delta    *int   `json:"delta"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		playerID, err := uuid.Parse(req.PlayerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player_id must be a valid UUID",
			})
		}
		delta := 1
		if req.Delta != nil {
			delta = *req.Delta
		}
		if err := session.RecordStat(playerID, scoring.TeamSide(req.Team), scoring.StatName(req.Stat), delta); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// UseTimeout returns a handler for POST /api/v1/games/:id/timeouts.
func UseTimeout(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		Team string `json:"team"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if err := session.UseTimeout(scoring.TeamSide(req.Team)); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// SetLineup returns a handler for PUT /api/v1/games/:id/lineup — replaces a
// team's entire on-court five.
func SetLineup(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		Team      string   `json:"team"`
		PlayerIDs []string `json:"player_ids"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		ids := make([]uuid.UUID, len(req.PlayerIDs))
		for i, s := range req.PlayerIDs {
			id, err := uuid.Parse(s)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "player_ids must be valid UUIDs",
				})
			}
			ids[i] = id
		}
		if err := session.SetLineup(scoring.TeamSide(req.Team), ids); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// Substitute returns a handler for POST /api/v1/games/:id/substitutions.
// One pair is a simple swap; several pairs are applied as a single atomic
// batch — if any pair is invalid, none of them land.
func Substitute(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type pair struct {
		Out string `json:"out"`
		In  string `json:"in"`
	}
	type request struct {
		Team  string `json:"team"`
		Pairs []pair `json:"pairs"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if len(req.Pairs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "at least one substitution pair is required",
			})
		}
		pairs := make([]scoring.SubstitutionPair, len(req.Pairs))
		for i, p := range req.Pairs {
			out, err := uuid.Parse(p.Out)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "substitution pairs must use valid UUIDs",
				})
			}
			in, err := uuid.Parse(p.In)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "substitution pairs must use valid UUIDs",
				})
			}
			pairs[i] = scoring.SubstitutionPair{Out: out, In: in}
		}

		side := scoring.TeamSide(req.Team)
		if len(pairs) == 1 {
			err = session.Substitute(side, pairs[0].Out, pairs[0].In)
		} else {
			err = session.SubstituteMany(side, pairs)
		}
		if err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// ToggleSubstitution returns a handler for POST
// /api/v1/games/:id/substitutions/toggle — the quick-sub path that benches an
// active player or inserts a benched one without naming a counterpart.
func ToggleSubstitution(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		Team     string `json:"team"`
		PlayerID string `json:"player_id"`
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		playerID, err := uuid.Parse(req.PlayerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player_id must be a valid UUID",
			})
		}
		if err := session.ToggleActive(scoring.TeamSide(req.Team), playerID); err != nil {
			return scoringError(c, err)
		}
		return c.JSON(mgr.Flush(session))
	}
}

// Undo returns a handler for POST /api/v1/games/:id/undo. The body names
// either a player (undo their last recorded action) or a team (undo its last
// timeout). Undoing with nothing on the stack is a quiet no-op — the
// response carries "undone": false and the unchanged snapshot.
func Undo(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	type request struct {
		PlayerID string `json:"player_id"` // set for a player undo
		Team     string `json:"team"`      // set for a timeout undo
	}
	return func(c *fiber.Ctx) error {
		session, err := liveSession(c, db, mgr)
		if err != nil {
			return scoringError(c, err)
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		var key string
		switch {
		case req.PlayerID != "":
			playerID, err := uuid.Parse(req.PlayerID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "player_id must be a valid UUID",
				})
			}
			key = scoring.PlayerKey(playerID)
		case req.Team != "":
			side := scoring.TeamSide(req.Team)
			if !side.Valid() {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "team must be 'a' or 'b'",
				})
			}
			key = scoring.TimeoutKey(side)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "either player_id or team is required",
			})
		}

		undone, err := session.UndoLast(key)
		if err != nil {
			return scoringError(c, err)
		}
		snap := session.Snapshot()
		if undone {
			snap = mgr.Flush(session)
		}
		return c.JSON(fiber.Map{"undone": undone, "scoresheet": snap})
	}
}

// Revert returns a handler for POST /api/v1/games/:id/revert — discard every
// change since the last persisted snapshot and reload it. This is distinct
// from /undo: undo precisely reverses one action, revert abandons the
// in-memory state wholesale.
func Revert(db *gorm.DB, mgr *scoring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Touch the session first so a live-but-unregistered game (server
		// restart) is resumed before reverting.
		if _, err := liveSession(c, db, mgr); err != nil {
			return scoringError(c, err)
		}
		gameID, _ := uuid.Parse(c.Params("id"))
		snap, err := mgr.RevertAll(gameID)
		if err != nil {
			return scoringError(c, err)
		}
		return c.JSON(snap)
	}
}
