package export

import (
	"fmt"

	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	Service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{
		Service: service,
	}
}

func (ctrl *ExportController) ExportInbox(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	data, filename, err := ctrl.Service.ExportInbox(c.Context(), claims.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

func (ctrl *ExportController) ExportLeads(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	data, filename, err := ctrl.Service.ExportLeads(c.Context(), claims.UserID, c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
