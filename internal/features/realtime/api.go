package realtime

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeApi struct {
	Controller *RealtimeController
}

func NewRealtimeApi(controller *RealtimeController) *RealtimeApi {
	return &RealtimeApi{
		Controller: controller,
	}
}

func (h *RealtimeApi) Setup(app *fiber.App) {
	app.Get("/api/ws", websocket.New(h.Controller.HandleWebSocket))
}
