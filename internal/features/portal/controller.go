package portal

import (
	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PortalController struct {
	Service PortalService
}

func NewPortalController(service PortalService) *PortalController {
	return &PortalController{
		Service: service,
	}
}

type createPortalRequest struct {
	// The dashboard posts {name, mail, description}; the standalone
	// create form posts {name, email, desc}. Both are accepted.
	Name        string `json:"name"`
	Mail        string `json:"mail"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Desc        string `json:"desc"`
}

func (r *createPortalRequest) email() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Mail
}

func (r *createPortalRequest) description() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Desc
}

func (ctrl *PortalController) CreatePortal(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req createPortalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	p, err := ctrl.Service.CreatePortal(c.Context(), claims.UserID, req.Name, req.email(), req.description())
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"portal":  p,
	})
}

func (ctrl *PortalController) GetPortal(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	p, err := ctrl.Service.GetPortal(c.Context(), claims.UserID, c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"portal":  p,
	})
}

func (ctrl *PortalController) ListPortals(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	// The userId query param is legacy; a caller may only list their own
	if q := c.Query("userId"); q != "" && q != claims.UserID {
		return apperr.Respond(c, apperr.Forbidden("cannot list another user's portals"))
	}

	portals, err := ctrl.Service.ListPortals(c.Context(), claims.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"portals": portals,
		"message": "portals fetched",
	})
}

func (ctrl *PortalController) SharePortal(c *fiber.Ctx) error {
	p, err := ctrl.Service.GetBySlug(c.Context(), c.Get("slug"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"portal":  p,
	})
}

type savePortalRequest struct {
	PortalID string    `json:"portalId"`
	Version  int64     `json:"version"`
	Modules  ModuleSet `json:"modules"`
}

func (ctrl *PortalController) SavePortal(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req savePortalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}
	if req.PortalID == "" {
		return apperr.Respond(c, apperr.Validation("portalId is required"))
	}

	p, err := ctrl.Service.SaveModules(c.Context(), claims.UserID, req.PortalID, req.Version, req.Modules)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"portal":  p,
	})
}

func (ctrl *PortalController) DeletePortal(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := ctrl.Service.DeletePortal(c.Context(), claims.UserID, c.Params("id")); err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "portal deleted",
	})
}
