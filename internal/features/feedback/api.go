package feedback

import (
	"go-portal/internal/config"
	"go-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FeedbackApi struct {
	feedbackController *FeedbackController
	config             *config.Config
}

func NewFeedbackApi(feedbackController *FeedbackController, config *config.Config) *FeedbackApi {
	return &FeedbackApi{
		feedbackController: feedbackController,
		config:             config,
	}
}

// Setup registers feedback routes
func (h *FeedbackApi) Setup(app *fiber.App) {
	// Public: the client dashboard posts feedback without a session
	app.Post("/api/notify", h.feedbackController.Notify)

	inbox := app.Group("/api/inbox", middleware.AuthMiddleware(h.config.SkipAuth))
	inbox.Get("/", h.feedbackController.Inbox)
	inbox.Patch("/read/:id", h.feedbackController.MarkRead)
}
