// cmd/server/main.go
// Entry point for the Queens Ballers Republiq API server. The cmd/ folder
// holds executable binaries; internal/ holds the packages they wire together.
//
// Startup order matters a little: config, then database + migrations, then
// the two long-running goroutines (websocket hub, scoring manager), then the
// HTTP routes that feed them.
package main

import (
	"log"

	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors lets the mobile app call the API from a different origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/qbrepubliq/ballers-api/internal/config"
	"github.com/qbrepubliq/ballers-api/internal/database"
	"github.com/qbrepubliq/ballers-api/internal/handlers"
	"github.com/qbrepubliq/ballers-api/internal/middleware"
	"github.com/qbrepubliq/ballers-api/internal/scoring"
	"github.com/qbrepubliq/ballers-api/internal/websocket"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file)
	cfg := config.Load()

	// Connect to PostgreSQL; the *gorm.DB is shared by middleware and handlers
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run any pending SQL migrations so the schema is in sync on every start
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// The Hub fans live scoresheet snapshots out to websocket watchers
	hub := websocket.NewHub()
	go hub.Run()

	// The scoring manager owns every live game session: it serializes
	// scorekeeper actions, drives the 1 Hz game clocks, and fans each change
	// out to the snapshot writer (persistence) and the hub (watchers).
	mgr := scoring.NewManager(database.NewSnapshotWriter(db), hub)
	go mgr.Run()

	app := fiber.New(fiber.Config{
		AppName: "Queens Ballers Republiq API",
	})

	// Global middleware — runs on every request
	app.Use(logger.New())
	app.Use(cors.New())

	// Public routes
	app.Get("/health", handlers.HealthCheck)

	// Live scoresheet feed — websocket upgrade only, no auth (spectators)
	app.Use("/ws", handlers.LiveFeedUpgrade)
	app.Get("/ws/games/:id", handlers.LiveFeed(hub))

	// Authenticated API routes: everything under /api/v1 requires a valid
	// Clerk JWT; Auth also syncs the user into our database.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))

	// Games
	scorekeeper := middleware.RequireRole("admin", "manager")
	api.Get("/games", handlers.GetGames(db))
	api.Post("/games", scorekeeper, handlers.CreateGame(db))
	api.Post("/games/:id/start", scorekeeper, handlers.StartGame(db, mgr))
	api.Post("/games/:id/complete", scorekeeper, handlers.CompleteGame(db, mgr))
	api.Post("/games/:id/cancel", scorekeeper, handlers.CancelGame(db, mgr))

	// Live scoresheet — reading is open to any member, mutating is not
	api.Get("/games/:id/scoresheet", handlers.GetScoresheet(db, mgr))
	api.Post("/games/:id/clock", scorekeeper, handlers.ClockAction(db, mgr))
	api.Post("/games/:id/quarter/advance", scorekeeper, handlers.AdvanceQuarter(db, mgr))
	api.Put("/games/:id/rules", scorekeeper, handlers.UpdateRules(db, mgr))
	api.Post("/games/:id/shots", scorekeeper, handlers.RecordShot(db, mgr))
	api.Post("/games/:id/stats", scorekeeper, handlers.RecordStat(db, mgr))
	api.Post("/games/:id/timeouts", scorekeeper, handlers.UseTimeout(db, mgr))
	api.Put("/games/:id/lineup", scorekeeper, handlers.SetLineup(db, mgr))
	api.Post("/games/:id/substitutions", scorekeeper, handlers.Substitute(db, mgr))
	api.Post("/games/:id/substitutions/toggle", scorekeeper, handlers.ToggleSubstitution(db, mgr))
	api.Post("/games/:id/undo", scorekeeper, handlers.Undo(db, mgr))
	api.Post("/games/:id/revert", scorekeeper, handlers.Revert(db, mgr))

	// Season reporting
	api.Get("/seasons/:id/leaderboard", handlers.GetSeasonLeaderboard(db))

	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
