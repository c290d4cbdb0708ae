package builder

import (
	"encoding/json"

	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BuilderController struct {
	Service BuilderService
}

func NewBuilderController(service BuilderService) *BuilderController {
	return &BuilderController{
		Service: service,
	}
}

func draftResponse(c *fiber.Ctx, d *Draft) error {
	return c.JSON(fiber.Map{
		"success": true,
		"draft":   d,
	})
}

func (ctrl *BuilderController) Open(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	d, err := ctrl.Service.Open(c.Context(), claims.UserID, c.Params("portalId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) Toggle(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req struct {
		Module string `json:"module"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	d, err := ctrl.Service.Toggle(c.Context(), claims.UserID, c.Params("portalId"), req.Module)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) Reset(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	d, err := ctrl.Service.Reset(c.Context(), claims.UserID, c.Params("portalId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) SetOverview(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	d, err := ctrl.Service.SetOverview(c.Context(), claims.UserID, c.Params("portalId"), req.Title, req.Summary)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

type itemRequest struct {
	Module string          `json:"module"`
	Item   json.RawMessage `json:"item"`
}

func (ctrl *BuilderController) AddItem(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	d, err := ctrl.Service.UpsertItem(c.Context(), claims.UserID, c.Params("portalId"), req.Module, "", req.Item)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) UpdateItem(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	d, err := ctrl.Service.UpsertItem(c.Context(), claims.UserID, c.Params("portalId"), req.Module, c.Params("itemId"), req.Item)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) RemoveItem(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	d, err := ctrl.Service.RemoveItem(c.Context(), claims.UserID, c.Params("portalId"), c.Query("module"), c.Params("itemId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return draftResponse(c, d)
}

func (ctrl *BuilderController) Save(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	p, err := ctrl.Service.Save(c.Context(), claims.UserID, c.Params("portalId"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"portal":  p,
	})
}
