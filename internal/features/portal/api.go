package portal

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PortalApi struct {
	portalController *PortalController
	config           *config.Config
}

func NewPortalApi(portalController *PortalController, config *config.Config) *PortalApi {
	return &PortalApi{
		portalController: portalController,
		config:           config,
	}
}

// Setup registers all portal routes
func (h *PortalApi) Setup(app *fiber.App) {
	// Public share path: possession of the slug is the capability
	app.Get("/api/portal/share", h.portalController.SharePortal)

	portals := app.Group("/api/portal", middleware.AuthMiddleware(h.config.SkipAuth))

	portals.Post("/", h.portalController.CreatePortal)
	portals.Post("/create", h.portalController.CreatePortal)
	portals.Get("/all", h.portalController.ListPortals)
	portals.Get("/:id", h.portalController.GetPortal)
	portals.Patch("/", h.portalController.SavePortal)
	portals.Delete("/:id", h.portalController.DeletePortal)
}
