package billing

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BillingApi struct {
	billingController *BillingController
	config            *config.Config
}

func NewBillingApi(billingController *BillingController, config *config.Config) *BillingApi {
	return &BillingApi{
		billingController: billingController,
		config:            config,
	}
}

// Setup registers billing routes
func (h *BillingApi) Setup(app *fiber.App) {
	b := app.Group("/api/billing", middleware.AuthMiddleware(h.config.SkipAuth))
	b.Post("/events", h.billingController.RecordEvent)
	b.Get("/subscriptions", h.billingController.ListSubscriptions)
}
