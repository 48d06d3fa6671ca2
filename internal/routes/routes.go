package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-connect/internal/handlers"
)

// Setup registers the HTTP surface. authMW guards everything below /api
// except the auth endpoints themselves.
func Setup(app *fiber.App, h *handlers.Handler, authMW fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)

	social := api.Group("/social", authMW)
	social.Post("/connect/:platform", h.ConnectAccount)
	social.Post("/disconnect/:platform", h.DisconnectAccount)
	social.Get("/accounts", h.ListAccounts)

	posts := api.Group("/posts", authMW)
	posts.Post("/create", h.CreatePost)
	posts.Get("/history", h.PostHistory)
	posts.Get("/:id", h.GetPost)
}
