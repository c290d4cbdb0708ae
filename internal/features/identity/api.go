package identity

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type IdentityApi struct {
	identityController *IdentityController
	config             *config.Config
}

func NewIdentityApi(identityController *IdentityController, config *config.Config) *IdentityApi {
	return &IdentityApi{
		identityController: identityController,
		config:             config,
	}
}

// Setup registers auth routes
func (h *IdentityApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.identityController.Register)
	auth.Post("/login", h.identityController.Login)
	auth.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth), h.identityController.Me)
}
