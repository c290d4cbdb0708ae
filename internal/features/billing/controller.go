package billing

import (
	"go-portal/internal/common/apperr"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BillingController struct {
	Service BillingService
}

func NewBillingController(service BillingService) *BillingController {
	return &BillingController{
		Service: service,
	}
}

func (ctrl *BillingController) RecordEvent(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var ev SubscriptionEvent
	if err := c.BodyParser(&ev); err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request body"))
	}

	sub, err := ctrl.Service.RecordSubscriptionEvent(c.Context(), claims.UserID, &ev)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"subscription": sub,
	})
}

func (ctrl *BillingController) ListSubscriptions(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	subs, err := ctrl.Service.ListSubscriptions(c.Context(), claims.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"subscriptions": subs,
	})
}
