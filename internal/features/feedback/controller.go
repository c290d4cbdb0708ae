package feedback

import (
	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FeedbackController struct {
	Service FeedbackService
}

func NewFeedbackController(service FeedbackService) *FeedbackController {
	return &FeedbackController{
		Service: service,
	}
}

type notifyRequest struct {
	PortalID string `json:"portalId"`
	Feedback struct {
		ClientName  string `json:"clientName"`
		ClientEmail string `json:"clientEmail"`
		Message     string `json:"message"`
	} `json:"feedback"`
}

func (ctrl *FeedbackController) Notify(c *fiber.Ctx) error {
	var req notifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	if _, err := ctrl.Service.Submit(c.Context(), req.PortalID, req.Feedback.ClientName, req.Feedback.ClientEmail, req.Feedback.Message); err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "feedback received",
	})
}

func (ctrl *FeedbackController) Inbox(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	groups, err := ctrl.Service.Inbox(c.Context(), claims.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"groups":  groups,
	})
}

func (ctrl *FeedbackController) MarkRead(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := ctrl.Service.MarkRead(c.Context(), claims.UserID, c.Params("id")); err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "message marked read",
	})
}
