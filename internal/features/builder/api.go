package builder

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BuilderApi struct {
	builderController *BuilderController
	config            *config.Config
}

func NewBuilderApi(builderController *BuilderController, config *config.Config) *BuilderApi {
	return &BuilderApi{
		builderController: builderController,
		config:            config,
	}
}

// Setup registers builder session routes
func (h *BuilderApi) Setup(app *fiber.App) {
	b := app.Group("/api/builder", middleware.AuthMiddleware(h.config.SkipAuth))

	b.Post("/:portalId/open", h.builderController.Open)
	b.Post("/:portalId/toggle", h.builderController.Toggle)
	b.Post("/:portalId/reset", h.builderController.Reset)
	b.Put("/:portalId/overview", h.builderController.SetOverview)
	b.Post("/:portalId/items", h.builderController.AddItem)
	b.Put("/:portalId/items/:itemId", h.builderController.UpdateItem)
	b.Delete("/:portalId/items/:itemId", h.builderController.RemoveItem)
	b.Post("/:portalId/save", h.builderController.Save)
}
