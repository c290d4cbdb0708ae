package export

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	exportController *ExportController
	config           *config.Config
}

func NewExportApi(exportController *ExportController, config *config.Config) *ExportApi {
	return &ExportApi{
		exportController: exportController,
		config:           config,
	}
}

// Setup registers export routes
func (h *ExportApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)
	app.Get("/api/inbox/export", auth, h.exportController.ExportInbox)
	app.Get("/api/portal/:id/leads/export", auth, h.exportController.ExportLeads)
}
