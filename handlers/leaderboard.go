// handlers/leaderboard.go
package handlers

import (
	"strconv"

	"player-guess-system/middleware"
	"player-guess-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, sessionService *services.SessionService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		entries, err := leaderboardService.Top(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
			})
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	session := app.Group("/session", middleware.SessionContextMiddleware())

	session.Get("/stats", func(c *fiber.Ctx) error {
		sessionID := c.Locals("session_id").(string)

		stats, err := sessionService.GetStats(sessionID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(stats)
	})

	session.Post("/nickname", func(c *fiber.Ctx) error {
		sessionID := c.Locals("session_id").(string)

		var body struct {
			Nickname string `json:"nickname"`
		}
		if err := c.BodyParser(&body); err != nil || body.Nickname == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nickname is required"})
		}
		if len(body.Nickname) > 32 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nickname too long (max 32)"})
		}

		updated, err := sessionService.SetNickname(sessionID, body.Nickname)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(updated)
	})
}
