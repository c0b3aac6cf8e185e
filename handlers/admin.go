// handlers/admin.go — admin reset + dataset import tooling
package handlers

import (
	"log"

	"player-guess-system/middleware"
	"player-guess-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, sessionService *services.SessionService, importService *services.ImportService) {
	admin := app.Group("/admin", middleware.AdminOnlyMiddleware())

	admin.Post("/sessions/:id/reset", func(c *fiber.Ctx) error {
		session, err := sessionService.ResetStreak(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		log.Printf("✅ [ADMIN] streak reset for session %s", session.ID)
		return c.JSON(session)
	})

	admin.Post("/players/import", func(c *fiber.Ctx) error {
		var body struct {
			Key string `json:"key"` // R2 object key of the scraped dataset
		}
		if err := c.BodyParser(&body); err != nil || body.Key == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
		}

		imported, err := importService.ImportFromR2(body.Key)
		if err != nil {
			log.Printf("❌ [ADMIN] dataset import %q failed: %v", body.Key, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "dataset import failed",
			})
		}
		log.Printf("✅ [ADMIN] imported %d players from %q", imported, body.Key)
		return c.JSON(fiber.Map{"imported": imported})
	})
}
