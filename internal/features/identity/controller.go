package identity

import (
	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type IdentityController struct {
	Service IdentityService
}

func NewIdentityController(service IdentityService) *IdentityController {
	return &IdentityController{
		Service: service,
	}
}

func (ctrl *IdentityController) Register(c *fiber.Ctx) error {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		AgencyName string `json:"agencyName"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	u, token, err := ctrl.Service.Register(c.Context(), req.Name, req.Email, req.Password, req.AgencyName)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    u,
	})
}

func (ctrl *IdentityController) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	token, err := ctrl.Service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

func (ctrl *IdentityController) Me(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	u, agency, err := ctrl.Service.CurrentUser(c.Context(), claims.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    u,
		"agency":  agency,
	})
}
