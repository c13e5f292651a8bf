package mockapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewApp wires the routes onto a fiber app. The caller owns Listen and
// Shutdown.
func NewApp(store *Store, tokens *TokenService, sim *Simulator) *fiber.App {
	handler := NewHandler(store, tokens, sim)

	app := fiber.New(fiber.Config{
		AppName: "FrontDesk Mock API",
	})
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/refresh", handler.RefreshToken)

	// Everything below requires a bearer token.
	app.Use(RequireAuth(tokens))

	app.Get("/me", handler.Me)
	app.Post("/me/onboarded", handler.CompleteOnboarding)

	app.Get("/agent-profile", handler.GetProfile)
	app.Put("/agent-profile", handler.PutProfile)
	app.Put("/agent-profile/core-services", handler.PutCoreServices)
	app.Put("/agent-profile/faqs", handler.PutFAQs)

	app.Get("/calls", handler.ListCalls)
	app.Post("/calls/simulate", handler.SimulateCall)
	app.Get("/calls/:id", handler.GetCall)
	app.Post("/calls/:id/read", handler.MarkCallRead)
	app.Put("/calls/:id/notes", handler.PutCallNotes)
	app.Get("/calls/:id/recording", handler.GetRecording)

	app.Get("/call-layout-preferences", handler.GetLayout)
	app.Put("/call-layout-preferences", handler.PutLayout)

	app.Get("/billing/plans", handler.ListPlans)
	app.Get("/billing/subscription", handler.GetSubscription)

	app.Get("/integrations", handler.ListIntegrations)
	app.Post("/integrations/:id/pair", handler.StartPairing)

	app.Get("/analytics/summary", handler.GetAnalyticsSummary)

	return app
}
