// handlers/round.go — round lifecycle HTTP surface
package handlers

import (
	"errors"
	"log"
	"time"

	"player-guess-system/middleware"
	"player-guess-system/services"
	"player-guess-system/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// statusFor maps the service/token error taxonomy onto HTTP codes.
// Anything unrecognized is an infrastructure error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, token.ErrInvalidTokenFormat),
		errors.Is(err, token.ErrInvalidTokenPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, token.ErrInvalidTokenSignature),
		errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, services.ErrRoundExpired):
		return fiber.StatusGone
	case errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrNoPlayers):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrClueLimitReached),
		errors.Is(err, services.ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [ROUNDS] %s failed: %v", c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type tokenBody struct {
	Token string `json:"token"`
}

type guessBody struct {
	Token string `json:"token"`
	Guess string `json:"guess"`
}

func SetupRoundRoutes(app *fiber.App, roundService *services.RoundService) {
	rounds := app.Group("/rounds", middleware.SessionContextMiddleware())

	// Edge throttle on the spammable endpoints; the service carries its
	// own injected limiter keyed by session.
	burst := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Session-ID")
		},
	})

	rounds.Post("/", func(c *fiber.Ctx) error {
		sessionID := c.Locals("session_id").(string)
		forceUltra := c.QueryBool("force_ultra", false)

		info, err := roundService.CreateRound(sessionID, forceUltra)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})

	rounds.Get("/active", func(c *fiber.Ctx) error {
		sessionID := c.Locals("session_id").(string)

		info, err := roundService.RestoreRound(sessionID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(info)
	})

	rounds.Post("/clue", burst, func(c *fiber.Ctx) error {
		var body tokenBody
		if err := c.BodyParser(&body); err != nil || body.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
		}

		result, err := roundService.RevealClue(body.Token)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})

	rounds.Post("/guess", burst, func(c *fiber.Ctx) error {
		var body guessBody
		if err := c.BodyParser(&body); err != nil || body.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
		}
		if body.Guess == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "guess is required"})
		}

		result, err := roundService.SubmitGuess(body.Token, body.Guess)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})

	rounds.Post("/surrender", func(c *fiber.Ctx) error {
		var body tokenBody
		if err := c.BodyParser(&body); err != nil || body.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
		}

		result, err := roundService.Surrender(body.Token)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})
}
